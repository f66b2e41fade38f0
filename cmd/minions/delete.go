package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deletedBy string

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft-delete a record",
	Long:  `Delete marks a record as deleted. It is hidden from list and search until restored.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		m, err := loadMinion(ctx, c, args[0])
		if err != nil {
			return err
		}
		w, err := c.SoftDelete(ctx, m, deletedBy)
		if err != nil {
			return err
		}
		if err := w.Save(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", m.ID)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a soft-deleted record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		m, err := loadMinion(ctx, c, args[0])
		if err != nil {
			return err
		}
		w, err := c.Restore(ctx, m)
		if err != nil {
			return err
		}
		if err := w.Save(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", m.ID)
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently remove a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		m, err := loadMinion(ctx, c, args[0])
		if err != nil {
			return err
		}
		if err := c.Remove(ctx, m); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Purged %s\n", m.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd, restoreCmd, purgeCmd)
	deleteCmd.Flags().StringVar(&deletedBy, "by", "", "Author recorded as deletedBy")
}
