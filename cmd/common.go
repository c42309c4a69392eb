package cmd

import (
	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/pipeline"
	"github.com/spf13/cobra"
)

var (
	quiet         bool
	verbose       bool
	rootDir       string
	recipesRemote string
)

func pipelineInit(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rootDir, "root", "r", "", "root directory for recipes, builds and installed packages")
	cmd.Flags().StringVar(&recipesRemote, "recipes", "", "remote recipe index (git URL or .tar.xz URL) to sync from")
}

func newPipeline() *pipeline.Pipeline {
	cfg, err := pipeline.DefaultConfig()
	if err != nil {
		waterlog.Fatalf("Failed to set up pipeline: %s\n", err)
	}
	if rootDir != "" {
		cfg.RootDir = rootDir
	}
	cfg.MirrorRemote = recipesRemote
	return pipeline.New(cfg)
}
