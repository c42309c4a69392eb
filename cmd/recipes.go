// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/pipeline"
	"github.com/spf13/cobra"
)

var (
	long bool

	cmdRecipes = &cobra.Command{
		Use:   "recipes",
		Short: "List the recipes available in the mirror",
		Run:   runRecipes,
	}
)

func init() {
	pipelineInit(cmdRecipes)
	cmdRecipes.Flags().BoolVarP(&long, "long", "l", false, "also show each recipe's fetcher and remote")
}

func runRecipes(cmd *cobra.Command, args []string) {
	p := newPipeline()
	if err := pipeline.Setup(p); err != nil {
		waterlog.Fatalf("Failed to set up pipeline: %s\n", err)
	}

	names := p.Mirror().List()
	for _, name := range names {
		if !long {
			fmt.Println(name)
			continue
		}

		cfg, ok := p.Mirror().Read(name)
		if !ok {
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", name, cfg.Fetcher, cfg.Remote())
	}

	if len(names) == 0 {
		waterlog.Infoln("The recipe mirror is empty")
	}
}
