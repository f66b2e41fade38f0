package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/core"
)

var (
	createTitle       string
	createFields      []string
	createTags        []string
	createStatus      string
	createPriority    string
	createDescription string
	createBy          string
)

var createCmd = &cobra.Command{
	Use:   "create <type-slug>",
	Short: "Create and store a new record",
	Long: `Create validates the given fields against the type's schema, fills
schema defaults and stores the new record. Field values are parsed as JSON
when possible (--field count=3, --field done=true) and as strings otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(createFields)
		if err != nil {
			return err
		}

		c, err := openClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		w, err := c.Create(ctx, args[0], core.CreateMinionInput{
			Title:       createTitle,
			Fields:      fields,
			Tags:        createTags,
			Status:      core.MinionStatus(createStatus),
			Priority:    core.MinionPriority(createPriority),
			Description: createDescription,
			CreatedBy:   createBy,
		})
		if err != nil {
			return err
		}
		if err := w.Save(ctx); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), w.Data.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&createTitle, "title", "", "Record title")
	createCmd.Flags().StringArrayVarP(&createFields, "field", "f", nil, "Field value as key=value (repeatable)")
	createCmd.Flags().StringSliceVar(&createTags, "tag", nil, "Tag (repeatable)")
	createCmd.Flags().StringVar(&createStatus, "status", "", "Status (active, todo, in_progress, completed, cancelled)")
	createCmd.Flags().StringVar(&createPriority, "priority", "", "Priority (low, medium, high, urgent)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "Free-form description")
	createCmd.Flags().StringVar(&createBy, "by", "", "Author recorded as createdBy")
	createCmd.MarkFlagRequired("title")
}
