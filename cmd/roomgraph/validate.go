package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a layout file without serving it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("layout")
			_, cfg, w, err := loadWorld(path)
			if err != nil {
				return err
			}
			st := w.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: version %s, %d rooms, %d exits, %d free exit slots\n",
				path, cfg.Version, st.Rooms, st.Exits, st.FreeSlots)
			return nil
		},
	}
}
