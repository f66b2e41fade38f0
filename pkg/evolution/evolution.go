// Package evolution reconciles records with a changed type schema.
package evolution

import (
	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/lifecycle"
	"github.com/aretw0/minions/pkg/validation"
)

// Migrate moves m from oldSchema to newSchema.
//
// Fields missing from newSchema, and fields whose type changed to one the
// current value no longer fits, are moved to the _legacy map. Legacy entries
// accumulate across migrations. Fields new to the schema take their default.
func Migrate(m core.Minion, oldSchema, newSchema []core.FieldDefinition) core.Minion {
	oldDefs := index(oldSchema)
	newDefs := index(newSchema)

	fields := make(map[string]any, len(m.Fields))
	legacy := core.CopyFields(m.Legacy)

	for name, value := range m.Fields {
		newDef, ok := newDefs[name]
		if !ok {
			legacy[name] = value
			continue
		}
		if oldDef, ok := oldDefs[name]; ok && oldDef.Type != newDef.Type && !IsCompatible(value, newDef.Type) {
			legacy[name] = value
			continue
		}
		fields[name] = value
	}

	out := m.Clone()
	out.Fields = lifecycle.ApplyDefaults(fields, newSchema)
	out.Legacy = nil
	if len(legacy) > 0 {
		out.Legacy = legacy
	}
	out.UpdatedAt = core.Now()
	return out
}

// IsCompatible reports whether value can be kept under a field of type t.
// Nil values and unknown types are always compatible.
func IsCompatible(value any, t core.FieldType) bool {
	if value == nil {
		return true
	}
	switch t {
	case core.FieldString, core.FieldTextarea, core.FieldURL, core.FieldEmail, core.FieldDate, core.FieldSelect:
		_, ok := value.(string)
		return ok
	case core.FieldNumber:
		_, ok := validation.AsNumber(value)
		return ok
	case core.FieldBoolean:
		_, ok := value.(bool)
		return ok
	case core.FieldTags, core.FieldMultiSelect, core.FieldArray:
		return validation.IsList(value)
	}
	return true
}

func index(schema []core.FieldDefinition) map[string]core.FieldDefinition {
	out := make(map[string]core.FieldDefinition, len(schema))
	for _, def := range schema {
		out[def.Name] = def
	}
	return out
}
