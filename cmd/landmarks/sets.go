package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the configured category sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, name := range categorySets.Names() {
			fmt.Fprintf(out, "%s:\n", name)
			for _, c := range categorySets[name] {
				fmt.Fprintf(out, "  [%s] %s\n", c.Lang, c.Name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setsCmd)
}
