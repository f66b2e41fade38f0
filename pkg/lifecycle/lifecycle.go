// Package lifecycle creates and transitions Minion records.
//
// Every function takes records by value and returns a new record; inputs are
// never modified. Validation failures do not prevent a record from being
// built: the candidate is returned with its ValidationResult and the caller
// decides whether to keep it.
package lifecycle

import (
	"strings"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/validation"
)

// RelationRemover is the part of a relation graph needed for hard deletes.
type RelationRemover interface {
	RemoveByMinionID(id string) int
}

// Create builds a new record of type t. Schema defaults fill fields the
// input leaves unset, and status defaults to active.
func Create(input core.CreateMinionInput, t core.MinionType) (core.Minion, core.ValidationResult) {
	fields := ApplyDefaults(input.Fields, t.Schema)
	result := validation.ValidateFields(fields, t.Schema)

	status := input.Status
	if status == "" {
		status = core.StatusActive
	}

	ts := core.Now()
	m := core.Minion{
		ID:           core.NewID(),
		Title:        input.Title,
		MinionTypeID: t.ID,
		Fields:       fields,
		CreatedAt:    ts,
		UpdatedAt:    ts,
		Status:       status,
		Priority:     input.Priority,
		Description:  input.Description,
		DueDate:      input.DueDate,
		CategoryID:   input.CategoryID,
		FolderID:     input.FolderID,
		CreatedBy:    input.CreatedBy,
	}
	if input.Tags != nil {
		m.Tags = append([]string(nil), input.Tags...)
	}
	m.SearchableText = SearchableText(m, t)
	return m, result
}

// Update merges input over m. Field keys set to core.Unset are removed;
// omitted keys are kept. Top-level attributes change only when supplied.
func Update(m core.Minion, input core.UpdateMinionInput, t core.MinionType) (core.Minion, core.ValidationResult) {
	out := m.Clone()
	for k, v := range input.Fields {
		if core.IsUnset(v) {
			delete(out.Fields, k)
			continue
		}
		out.Fields[k] = v
	}
	result := validation.ValidateFields(out.Fields, t.Schema)

	if input.Title != nil {
		out.Title = *input.Title
	}
	if input.Tags != nil {
		out.Tags = append([]string(nil), input.Tags...)
	}
	if input.Status != nil {
		out.Status = *input.Status
	}
	if input.Priority != nil {
		out.Priority = *input.Priority
	}
	if input.Description != nil {
		out.Description = *input.Description
	}
	if input.DueDate != nil {
		out.DueDate = *input.DueDate
	}
	if input.CategoryID != nil {
		out.CategoryID = *input.CategoryID
	}
	if input.FolderID != nil {
		out.FolderID = *input.FolderID
	}
	if input.UpdatedBy != nil {
		out.UpdatedBy = *input.UpdatedBy
	}

	out.UpdatedAt = core.Now()
	out.SearchableText = SearchableText(out, t)
	return out, result
}

// SoftDelete marks m as deleted. DeletedAt and UpdatedAt are the same instant.
func SoftDelete(m core.Minion, deletedBy string) core.Minion {
	out := m.Clone()
	ts := core.Now()
	out.DeletedAt = &ts
	out.DeletedBy = deletedBy
	out.UpdatedAt = ts
	return out
}

// Restore clears the soft-delete markers of m.
func Restore(m core.Minion) core.Minion {
	out := m.Clone()
	out.DeletedAt = nil
	out.DeletedBy = ""
	out.UpdatedAt = core.Now()
	return out
}

// HardDelete removes every relation touching m from g and returns how many
// were removed. The record itself is left to the caller.
func HardDelete(m core.Minion, g RelationRemover) int {
	return g.RemoveByMinionID(m.ID)
}

// ApplyDefaults returns a copy of fields where every schema field that is
// missing (or nil) and declares a default takes that default. Keys set to
// core.Unset count as missing.
func ApplyDefaults(fields map[string]any, schema []core.FieldDefinition) map[string]any {
	out := core.CopyFields(fields)
	for k, v := range out {
		if core.IsUnset(v) {
			delete(out, k)
		}
	}
	for _, def := range schema {
		if def.DefaultValue == nil {
			continue
		}
		if v, ok := out[def.Name]; !ok || v == nil {
			out[def.Name] = def.DefaultValue
		}
	}
	return out
}

// SearchableText is the lowercased concatenation of the title, the
// description and every present value of a searchable schema field.
func SearchableText(m core.Minion, t core.MinionType) string {
	parts := []string{m.Title}
	if m.Description != "" {
		parts = append(parts, m.Description)
	}

	for _, def := range t.Schema {
		if !searchable(def.Type) {
			continue
		}
		v, ok := m.Fields[def.Name]
		if !ok || validation.IsAbsent(v) {
			continue
		}
		if def.Type == core.FieldTags {
			if items, ok := validation.ListItems(v); ok {
				tags := make([]string, 0, len(items))
				for _, item := range items {
					if s, ok := item.(string); ok {
						tags = append(tags, s)
					}
				}
				parts = append(parts, strings.Join(tags, " "))
			}
			continue
		}
		if s, ok := v.(string); ok {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func searchable(t core.FieldType) bool {
	switch t {
	case core.FieldString, core.FieldTextarea, core.FieldURL, core.FieldEmail, core.FieldTags, core.FieldSelect:
		return true
	}
	return false
}
