package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/core"
)

var (
	listType    string
	listStatus  string
	listTags    []string
	listDeleted bool
	listSort    string
	listDesc    bool
	listLimit   int
	listOffset  int
	listJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openClient()
		if err != nil {
			return err
		}

		f := core.Filter{
			Status:         core.MinionStatus(listStatus),
			IncludeDeleted: listDeleted,
			Tags:           listTags,
			SortBy:         core.SortField(listSort),
			Offset:         listOffset,
			Limit:          listLimit,
		}
		if listType != "" {
			t, ok := c.Registry().GetBySlug(listType)
			if !ok {
				return fmt.Errorf("%w: %s", core.ErrUnknownType, listType)
			}
			f.MinionTypeID = t.ID
		}
		if listDesc {
			f.SortOrder = core.SortDesc
		}

		ms, err := c.List(cmd.Context(), f)
		if err != nil {
			return err
		}

		if listJSON {
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
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by type slug")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Filter by tag (all must match)")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "Include soft-deleted records")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by title, createdAt or updatedAt")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of records (0 = all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of records to skip")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
