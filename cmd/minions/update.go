package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/core"
)

var (
	updateTitle    string
	updateFields   []string
	updateUnset    []string
	updateTags     []string
	updateStatus   string
	updatePriority string
	updateBy       string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a stored record",
	Long: `Update merges the given fields into the record and re-validates it.
Fields not mentioned keep their value; --unset removes a field.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(updateFields)
		if err != nil {
			return err
		}
		for _, key := range updateUnset {
			fields[key] = core.Unset
		}

		input := core.UpdateMinionInput{Fields: fields}
		flags := cmd.Flags()
		if flags.Changed("title") {
			input.Title = &updateTitle
		}
		if flags.Changed("tag") {
			input.Tags = append([]string{}, updateTags...)
		}
		if flags.Changed("status") {
			s := core.MinionStatus(updateStatus)
			input.Status = &s
		}
		if flags.Changed("priority") {
			p := core.MinionPriority(updatePriority)
			input.Priority = &p
		}
		if flags.Changed("by") {
			input.UpdatedBy = &updateBy
		}

		c, err := openClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		m, err := loadMinion(ctx, c, args[0])
		if err != nil {
			return err
		}
		w, err := c.Update(ctx, m, input)
		if err != nil {
			return err
		}
		if err := w.Save(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", w.Data.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "New title")
	updateCmd.Flags().StringArrayVarP(&updateFields, "field", "f", nil, "Field value as key=value (repeatable)")
	updateCmd.Flags().StringArrayVar(&updateUnset, "unset", nil, "Field to remove (repeatable)")
	updateCmd.Flags().StringSliceVar(&updateTags, "tag", nil, "Replace tags (repeatable)")
	updateCmd.Flags().StringVar(&updateStatus, "status", "", "New status")
	updateCmd.Flags().StringVar(&updatePriority, "priority", "", "New priority")
	updateCmd.Flags().StringVar(&updateBy, "by", "", "Author recorded as updatedBy")
}
