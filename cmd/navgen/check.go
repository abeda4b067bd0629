package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
	"github.com/gorustyt/gridnavmesh/navmesh"
	"github.com/gorustyt/gridnavmesh/navmesh/format"
)

func CheckCmd() *cobra.Command {
	var configFile, gridFile string
	c := &cobra.Command{
		Use:   "check <mesh>",
		Short: "validate a saved navmesh, optionally against its grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(configFile)
			if err != nil {
				return err
			}
			defer log.Sync()
			codec, err := cfg.Codec()
			if err != nil {
				return err
			}

			mesh, err := format.LoadFile(args[0], codec)
			if err != nil {
				return err
			}
			if err = mesh.Validate(); err != nil {
				return err
			}
			if gridFile != "" {
				g, err := grid.Load(gridFile)
				if err != nil {
					return err
				}
				if !navmesh.CheckNavmeshIntegrity(g, mesh) {
					return common.Preconditionf("%s was not built from %s", args[0], gridFile)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "hjson config file")
	c.Flags().StringVar(&gridFile, "grid", "", "grid the mesh must match")
	return c
}
