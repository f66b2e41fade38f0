package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/evolution"
)

var (
	migrateFrom   string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <type-slug>",
	Short: "Move stored records of a type from an old schema to the current one",
	Long: `Migrate compares the schema in --from (a YAML list of field definitions)
with the type's current schema, prints the differences and rewrites every
stored record of that type. Values of removed or retyped fields are kept
under _legacy. Use --dry-run to only print the differences.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to read old schema: %w", err)
		}
		var oldSchema []core.FieldDefinition
		if err := yaml.Unmarshal(data, &oldSchema); err != nil {
			return fmt.Errorf("failed to parse old schema: %w", err)
		}

		c, err := openClient()
		if err != nil {
			return err
		}
		t, ok := c.Registry().GetBySlug(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownType, args[0])
		}

		out := cmd.OutOrStdout()
		changes := evolution.Diff(oldSchema, t.Schema)
		if len(changes) == 0 {
			fmt.Fprintln(out, "Schema unchanged")
		}
		for _, ch := range changes {
			switch ch.Kind {
			case evolution.FieldRetyped:
				fmt.Fprintf(out, "%-8s %s (%s -> %s)\n", ch.Kind, ch.Field, ch.OldType, ch.NewType)
			case evolution.FieldRemoved:
				fmt.Fprintf(out, "%-8s %s (%s)\n", ch.Kind, ch.Field, ch.OldType)
			default:
				fmt.Fprintf(out, "%-8s %s (%s)\n", ch.Kind, ch.Field, ch.NewType)
			}
		}
		if migrateDryRun {
			return nil
		}

		n, err := c.MigrateAll(cmd.Context(), t.ID, oldSchema, t.Schema)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Migrated %d records\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "YAML file with the previous field schema")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Only print the schema differences")
	migrateCmd.MarkFlagRequired("from")
}
