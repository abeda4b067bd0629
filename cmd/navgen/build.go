package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorustyt/gridnavmesh/grid"
	"github.com/gorustyt/gridnavmesh/navmesh"
	"github.com/gorustyt/gridnavmesh/navmesh/format"
)

func BuildCmd() *cobra.Command {
	var configFile, output string
	c := &cobra.Command{
		Use:   "build <grid>",
		Short: "build a navmesh from a grid file",
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

			g, err := grid.Load(args[0])
			if err != nil {
				return err
			}
			mesh, err := navmesh.Build(g, cfg.BuildOptions(log)...)
			if err != nil {
				return err
			}
			if err = mesh.Validate(); err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".gnav"
			}
			if err = format.SaveFile(output, mesh, codec, cfg.Output.Gzip); err != nil {
				return err
			}
			st := mesh.Stats()
			log.Info("navmesh built",
				zap.String("grid", args[0]),
				zap.String("output", output),
				zap.Int("nodes", st.Nodes),
				zap.Int("vertices", st.Vertices))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "hjson config file")
	c.Flags().StringVarP(&output, "output", "o", "", "output file (default <grid>.gnav)")
	return c
}
