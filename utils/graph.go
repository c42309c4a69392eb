// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package utils

import (
	"slices"

	"github.com/yourbasic/graph"
)

// TieredTopSort computes a topological order of g grouped into tiers: every
// vertex in tier n only has incoming edges from tiers < n. The second return
// value is false when g has a cycle, in which case the tiers only cover the
// acyclic part of the graph.
func TieredTopSort(g graph.Iterator) ([][]int, bool) {
	indegree := make([]int, g.Order())
	for v := range indegree {
		g.Visit(v, func(w int, _ int64) (skip bool) {
			indegree[w]++
			return
		})
	}

	var res [][]int
	// Invariant: this queue holds all vertices with indegree 0.
	var queue []int
	for v, degree := range indegree {
		if degree == 0 {
			queue = append(queue, v)
		}
	}

	vertexCount := 0

	for len(queue) > 0 {
		slices.Sort(queue)
		res = append(res, queue)

		l := len(queue)
		for i := 0; i < l; i++ {
			v := queue[0]
			queue = queue[1:]

			vertexCount++
			g.Visit(v, func(w int, _ int64) (skip bool) {
				indegree[w]--
				if indegree[w] == 0 {
					queue = append(queue, w)
				}
				return false
			})
		}
	}

	return res, vertexCount == g.Order()
}
