package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
)

func newRouteCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Print the fewest-hops route between two rooms of a layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseRoom(args[0])
			if err != nil {
				return err
			}
			to, err := parseRoom(args[1])
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("layout")
			_, _, w, err := loadWorld(path)
			if err != nil {
				return err
			}
			route, err := w.Route(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(route)
			}
			for i, id := range route.Rooms {
				r, _ := w.Room(id)
				fmt.Fprintf(out, "%3d  %4d  %s\n", i, id, r.Name)
			}
			fmt.Fprintf(out, "%d hops, %d rooms expanded\n", route.Hops, route.Expanded)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the route as JSON")
	return cmd
}

func parseRoom(s string) (graph.NodeID, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil || !graph.Valid(graph.NodeID(n)) {
		return graph.None, fmt.Errorf("invalid room id %q", s)
	}
	return graph.NodeID(n), nil
}
