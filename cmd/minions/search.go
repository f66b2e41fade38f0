package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/core"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Find records containing every query word",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		ms, err := c.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if searchJSON {
			if ms == nil {
				ms = []core.Minion{}
			}
			return writeJSON(cmd.OutOrStdout(), ms)
		}
		printMinions(cmd.OutOrStdout(), c, ms)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
