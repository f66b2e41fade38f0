// Package validation checks field maps against a MinionType schema.
//
// Validation never fails with an error: every violated constraint is
// reported as a core.ValidationError, and all fields are checked in one pass.
package validation

import (
	"fmt"

	"github.com/aretw0/minions/pkg/core"
)

// IsAbsent reports whether a field value counts as missing: nil or "".
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// ValidateField validates a single value against its definition.
// An empty result means the value is valid.
func ValidateField(value any, def core.FieldDefinition) []core.ValidationError {
	if IsAbsent(value) {
		if def.Required {
			return []core.ValidationError{{
				Field:   def.Name,
				Message: fmt.Sprintf("Field %q is required", def.Name),
				Value:   value,
			}}
		}
		return nil
	}

	v, ok := validatorFor(def.Type)
	if !ok {
		return []core.ValidationError{{
			Field:   def.Name,
			Message: fmt.Sprintf("Unknown field type: %s", def.Type),
			Value:   value,
		}}
	}
	return v.validate(value, def)
}

// ValidateFields validates every schema field against fields[def.Name]
// and collects all errors.
func ValidateFields(fields map[string]any, schema []core.FieldDefinition) core.ValidationResult {
	errs := []core.ValidationError{}
	for _, def := range schema {
		errs = append(errs, ValidateField(fields[def.Name], def)...)
	}
	return core.ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
