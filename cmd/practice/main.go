// Command practice runs the practice-management API and its maintenance
// tasks.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/simp-lee/practice/internal/app"
	"github.com/simp-lee/practice/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "practice",
		Short:        "Multi-tenant practice management API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(serveCmd(load))
	root.AddCommand(migrateCmd(load))
	root.AddCommand(tokenCmd(load))
	return root
}

type loadFunc func() (*config.Config, error)

func serveCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}
