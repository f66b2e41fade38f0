package main

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		m, err := loadMinion(cmd.Context(), c, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), m)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
