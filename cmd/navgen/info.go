package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorustyt/gridnavmesh/navmesh/format"
)

func InfoCmd() *cobra.Command {
	var configFile string
	c := &cobra.Command{
		Use:   "info <mesh>",
		Short: "print navmesh statistics",
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
			st := mesh.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "size       %dx%d\n", mesh.Width, mesh.Height)
			fmt.Fprintf(out, "hash       %08x\n", mesh.WalkabilityHash)
			fmt.Fprintf(out, "nodes      %d (%d triangles)\n", st.Nodes, st.Triangles)
			fmt.Fprintf(out, "vertices   %d\n", st.Vertices)
			fmt.Fprintf(out, "portals    %d\n", st.Portals)
			fmt.Fprintf(out, "max verts  %d\n", st.MaxVerts)
			fmt.Fprintf(out, "area       %g\n", st.Area)
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "", "hjson config file")
	return c
}
