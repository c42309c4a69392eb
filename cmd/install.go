// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/installer"
	"github.com/GZGavinZhao/srcget/pipeline"
	"github.com/GZGavinZhao/srcget/recipe"
	"github.com/GZGavinZhao/srcget/utils"
	"github.com/briandowns/spinner"
	"github.com/dominikbraun/graph/draw"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	upgrade bool
	tiers   bool
	dotPath string

	cmdInstall = &cobra.Command{
		Use:   "install [names...]",
		Short: "Build the given packages from source and install them",
		Long: `Build the given packages from source and install them, along with every
missing dependency, dependencies first.

Each name is looked up in the recipe mirror; a name that matches no recipe
exactly is matched as a case-insensitive prefix. When no names are passed,
pick one interactively from the mirror.

Packages already installed are skipped unless --upgrade is given.`,
		Run: runInstall,
	}
)

func init() {
	pipelineInit(cmdInstall)
	cmdInstall.Flags().BoolVarP(&upgrade, "upgrade", "u", false, "rebuild and reinstall packages that are already installed")
	cmdInstall.Flags().BoolVarP(&tiers, "tiers", "t", false, "output the install summary as dependency tiers")
	cmdInstall.Flags().StringVar(&dotPath, "dot", "", "store the final dependency graph at the specified location in the DOT format")
}

func pickRecipe(p *pipeline.Pipeline) string {
	if err := pipeline.Setup(p); err != nil {
		waterlog.Fatalf("Failed to set up pipeline: %s\n", err)
	}

	names := p.Mirror().List()
	if len(names) == 0 {
		waterlog.Fatalln("The recipe mirror is empty, nothing to pick from")
	}

	for i, name := range names {
		fmt.Printf("%3d) %s\n", i+1, name)
	}
	fmt.Print("Package to install: ")

	var choice int
	if _, err := fmt.Scanln(&choice); err != nil || choice < 1 || choice > len(names) {
		waterlog.Fatalln("Invalid selection")
	}
	return names[choice-1]
}

func runInstall(cmd *cobra.Command, args []string) {
	p := newPipeline()

	names := utils.Uniq(args)
	if len(names) == 0 {
		names = []string{pickRecipe(p)}
	}

	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, name := range names {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Prefix = " "
		s.Suffix = fmt.Sprintf("  Installing %s", name)
		s.Color("white")
		s.Restart()

		err := p.Run(recipe.Request{Name: name}, pipeline.Options{Upgrade: &upgrade})

		var cerr installer.CyclesError
		if errors.As(err, &cerr) {
			s.Stop()
			waterlog.Errorln("Dependency graph contains cycles:")
			for cycleIdx, chain := range cerr.Chains {
				waterlog.Errorf("Cycle %d: ", cycleIdx+1)
				fmt.Println(strings.Join(chain, " -> "))
			}
			waterlog.Fatalf("Install of %s finished with cycles, installed what was possible\n", name)
		} else if err != nil {
			s.FinalMSG = fmt.Sprintf("%s failed to install %s: %s\n", red("[x]"), name, err)
			s.Stop()
			os.Exit(1)
		}

		installed := p.Last().Order()
		s.FinalMSG = fmt.Sprintf("%s %s: %d package(s) installed\n", green("[✓]"), name, len(installed))
		s.Stop()

		if tiers {
			groups, err := p.Last().Tiers()
			if err != nil {
				waterlog.Fatalf("Failed to compute dependency tiers: %s\n", err)
			}
			for tierIdx, tier := range groups {
				waterlog.Goodf("Tier %d: ", tierIdx+1)
				for _, member := range tier {
					fmt.Printf("%s ", member)
				}
				fmt.Println()
			}
		} else if len(installed) > 0 {
			waterlog.Good("Install order: ")
			for _, member := range installed {
				fmt.Printf("%s ", member)
			}
			fmt.Println()
		}

		if dotPath != "" {
			if err := writeDot(p, dotPath); err != nil {
				waterlog.Fatalf("Failed to write dependency graph to %s: %s\n", dotPath, err)
			}
		}
	}
}

func writeDot(p *pipeline.Pipeline, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return draw.DOT(p.Last().Graph(), file)
}
