package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of minions",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "minions version %s\n", minions.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
