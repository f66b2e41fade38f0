package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/lifecycle"
	"github.com/aretw0/minions/pkg/validation"
)

var validateFields []string

var validateCmd = &cobra.Command{
	Use:   "validate <type-slug>",
	Short: "Check field values against a type schema without storing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFields(validateFields)
		if err != nil {
			return err
		}

		c, err := openClient()
		if err != nil {
			return err
		}
		t, ok := c.Registry().GetBySlug(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownType, args[0])
		}

		res := validation.ValidateFields(lifecycle.ApplyDefaults(fields, t.Schema), t.Schema)
		for _, ve := range res.Errors {
			fmt.Fprintln(cmd.OutOrStdout(), ve.String())
		}
		if err := res.AsFailure(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringArrayVarP(&validateFields, "field", "f", nil, "Field value as key=value (repeatable)")
}
