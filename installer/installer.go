// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/builder"
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/GZGavinZhao/srcget/hostpkg"
	"github.com/GZGavinZhao/srcget/recipe"
	"github.com/GZGavinZhao/srcget/utils"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dominikbraun/graph"
	ybgraph "github.com/yourbasic/graph"
)

// Installer recursively ensures every non-core runtime dependency of a
// built package is itself built and installed before the package is
// registered with the host package manager.
type Installer struct {
	Builder  *builder.Builder
	Manager  hostpkg.Manager
	Resolver recipe.Resolver

	// visited holds every name handled in this invocation; together with
	// the acyclic install graph it guarantees the traversal terminates
	// even on cyclic requirement declarations.
	visited mapset.Set[string]
	g       graph.Graph[string, string]
	order   []string
	cycles  [][]string
}

func New(b *builder.Builder, mgr hostpkg.Manager, res recipe.Resolver) *Installer {
	return &Installer{
		Builder:  b,
		Manager:  mgr,
		Resolver: res,
		visited:  mapset.NewSet[string](),
		g:        graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

// Install builds and installs the requested package and, recursively, every
// missing runtime dependency, dependencies first. Nothing-to-do outcomes
// (already satisfied, unresolved recipe, unusable metadata) are absorbed;
// build service failures abort the request. When the requirement closure
// declared cycles, a CyclesError reports them after the best-effort pass.
func (ins *Installer) Install(req recipe.Request) error {
	if err := ins.install(req, nil); err != nil {
		return err
	}

	if len(ins.cycles) > 0 {
		return CyclesError{Chains: ins.cycles}
	}
	return nil
}

func (ins *Installer) install(req recipe.Request, chain []string) error {
	req = ins.Resolver.Resolve(req)
	name := req.Name

	_ = ins.g.AddVertex(name)
	if len(chain) > 0 {
		// Dependency edges point dep -> dependent, matching install order.
		dependent := chain[len(chain)-1]
		err := ins.g.AddEdge(name, dependent)
		if errors.Is(err, graph.ErrEdgeCreatesCycle) {
			cycle := append(append([]string{}, chain...), name)
			ins.cycles = append(ins.cycles, cycle)
			waterlog.Warnf("Dependency cycle detected, skipping %s: %v\n", name, cycle)
			return nil
		}
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return err
		}
	}

	if ins.visited.Contains(name) {
		return nil
	}
	ins.visited.Add(name)

	artifact, _, err := ins.Builder.Build(name, req.Config)
	if err != nil {
		return err
	}
	if artifact == "" {
		// Already satisfied or unresolvable, both valid terminal states.
		return nil
	}

	desc, err := descriptor.Extract(artifact)
	if err != nil {
		// Missing metadata must not block an otherwise valid artifact:
		// install it, just without dependency traversal.
		waterlog.Warnf("Failed to extract metadata from %s: %s\n", artifact, err)
		desc = nil
	}

	if desc != nil {
		waterlog.Debugf("Extracted %s\n", desc.Show(true, true))
		for _, dep := range desc.Requires {
			if dep.Name == ins.Manager.Runtime() {
				waterlog.Debugf("Skipping host runtime pseudo-dependency %s\n", dep.Name)
				continue
			}

			if err := ins.install(recipe.Request{Name: dep.Name}, append(chain, name)); err != nil {
				return fmt.Errorf("dependency %s of %s: %w", dep.Name, name, err)
			}
		}
	}

	if err := ins.Manager.InstallFile(artifact); err != nil {
		return fmt.Errorf("failed to install %s: %w", name, err)
	}
	ins.order = append(ins.order, name)

	return nil
}

// Order reports the names actually installed, in install order.
func (ins *Installer) Order() []string {
	return ins.order
}

// Graph exposes the install graph recorded during traversal, with edges
// pointing from dependency to dependent.
func (ins *Installer) Graph() graph.Graph[string, string] {
	return ins.g
}

// Tiers groups the installed packages into dependency tiers: everything in
// tier n only depends on tiers before it.
func (ins *Installer) Tiers() ([][]string, error) {
	adj, err := ins.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(adj))
	for name := range adj {
		names = append(names, name)
	}
	sort.Strings(names)

	idx := make(map[string]int, len(names))
	for i, name := range names {
		idx[name] = i
	}

	g := ybgraph.New(len(names))
	for from, edges := range adj {
		for to := range edges {
			g.Add(idx[from], idx[to])
		}
	}

	installed := mapset.NewSet[string](ins.order...)
	tiers, _ := utils.TieredTopSort(ybgraph.Sort(g))

	var res [][]string
	for _, tier := range tiers {
		members := make([]string, len(tier))
		for i, v := range tier {
			members[i] = names[v]
		}
		members = utils.Filter(members, func(name string) bool { return installed.Contains(name) })
		if len(members) > 0 {
			res = append(res, members)
		}
	}

	return res, nil
}
