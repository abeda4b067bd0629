// Command navgen builds navigation meshes from walkability grids.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorustyt/gridnavmesh/common/logger"
	"github.com/gorustyt/gridnavmesh/config"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:          "navgen",
		Short:        "grid navmesh generator",
		SilenceUsage: true,
	}
	c.AddCommand(BuildCmd(), CheckCmd(), InfoCmd())
	return c
}

// setup loads the config file and the logger it describes.
func setup(configFile string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
