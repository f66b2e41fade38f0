package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/core"
)

var (
	typesMatch string
	typesJSON  bool
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered record types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		var types []core.MinionType
		if typesMatch != "" {
			types, err = c.Registry().Match(typesMatch)
			if err != nil {
				return err
			}
		} else {
			types = c.Registry().List()
		}

		if typesJSON {
			return writeJSON(cmd.OutOrStdout(), types)
		}
		for _, t := range types {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-18s %d fields\n", t.Slug, t.Name, len(t.Schema))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().StringVar(&typesMatch, "match", "", "Only types whose slug matches this glob")
	typesCmd.Flags().BoolVar(&typesJSON, "json", false, "Output in JSON format")
}
