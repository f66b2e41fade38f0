// Package core holds the domain model shared by every other package:
// record kinds (MinionType), records (Minion), typed edges (Relation) and
// the ports implemented by storage adapters.
package core

import "time"

// FieldType is the data type of a single schema field.
type FieldType string

const (
	FieldString      FieldType = "string"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi-select"
	FieldURL         FieldType = "url"
	FieldEmail       FieldType = "email"
	FieldTextarea    FieldType = "textarea"
	FieldTags        FieldType = "tags"
	FieldJSON        FieldType = "json"
	FieldArray       FieldType = "array"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldString,
	FieldNumber,
	FieldBoolean,
	FieldDate,
	FieldSelect,
	FieldMultiSelect,
	FieldURL,
	FieldEmail,
	FieldTextarea,
	FieldTags,
	FieldJSON,
	FieldArray,
}

// IsValid reports whether the field type is recognized.
func (t FieldType) IsValid() bool {
	for _, v := range FieldTypes {
		if t == v {
			return true
		}
	}
	return false
}

// FieldValidation holds optional constraints for a field.
// Nil pointers mean "no constraint".
type FieldValidation struct {
	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// FieldDefinition declares one field of a MinionType schema.
type FieldDefinition struct {
	Name         string           `json:"name" yaml:"name"`
	Type         FieldType        `json:"type" yaml:"type"`
	Label        string           `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
	Required     bool             `json:"required,omitempty" yaml:"required,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Options      []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Validation   *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// MinionType is a named field schema plus descriptive metadata.
// Types are read-only once registered.
type MinionType struct {
	ID                string            `json:"id" yaml:"id"`
	Name              string            `json:"name" yaml:"name"`
	Slug              string            `json:"slug" yaml:"slug"`
	Schema            []FieldDefinition `json:"schema" yaml:"schema"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	Icon              string            `json:"icon,omitempty" yaml:"icon,omitempty"`
	Color             string            `json:"color,omitempty" yaml:"color,omitempty"`
	IsSystem          bool              `json:"isSystem,omitempty" yaml:"isSystem,omitempty"`
	IsOrganizational  bool              `json:"isOrganizational,omitempty" yaml:"isOrganizational,omitempty"`
	AllowedChildTypes []string          `json:"allowedChildTypes,omitempty" yaml:"allowedChildTypes,omitempty"`
	Behaviors         []string          `json:"behaviors,omitempty" yaml:"behaviors,omitempty"`
	DefaultView       string            `json:"defaultView,omitempty" yaml:"defaultView,omitempty"`
	AvailableViews    []string          `json:"availableViews,omitempty" yaml:"availableViews,omitempty"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt         *time.Time        `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Field returns the definition named name.
func (t MinionType) Field(name string) (FieldDefinition, bool) {
	for _, f := range t.Schema {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// MinionStatus is the lifecycle status of a record.
type MinionStatus string

const (
	StatusActive     MinionStatus = "active"
	StatusTodo       MinionStatus = "todo"
	StatusInProgress MinionStatus = "in_progress"
	StatusCompleted  MinionStatus = "completed"
	StatusCancelled  MinionStatus = "cancelled"
)

// MinionPriority is the priority level of a record.
type MinionPriority string

const (
	PriorityLow    MinionPriority = "low"
	PriorityMedium MinionPriority = "medium"
	PriorityHigh   MinionPriority = "high"
	PriorityUrgent MinionPriority = "urgent"
)

// Minion is one structured record, an instance of a MinionType.
//
// Values are treated as immutable: every transformation in this module
// returns a new Minion and leaves the receiver untouched.
type Minion struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	MinionTypeID   string         `json:"minionTypeId"`
	Fields         map[string]any `json:"fields"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Tags           []string       `json:"tags,omitempty"`
	Status         MinionStatus   `json:"status,omitempty"`
	Priority       MinionPriority `json:"priority,omitempty"`
	Description    string         `json:"description,omitempty"`
	DueDate        string         `json:"dueDate,omitempty"`
	CategoryID     string         `json:"categoryId,omitempty"`
	FolderID       string         `json:"folderId,omitempty"`
	CreatedBy      string         `json:"createdBy,omitempty"`
	UpdatedBy      string         `json:"updatedBy,omitempty"`
	DeletedAt      *time.Time     `json:"deletedAt,omitempty"`
	DeletedBy      string         `json:"deletedBy,omitempty"`
	SearchableText string         `json:"searchableText,omitempty"`
	Legacy         map[string]any `json:"_legacy,omitempty"`
}

// IsDeleted reports whether the record is soft-deleted.
func (m Minion) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Clone returns a copy whose maps and slices are not shared with m.
// Nested field values (e.g. a json object) are still shared.
func (m Minion) Clone() Minion {
	out := m
	out.Fields = CopyFields(m.Fields)
	if m.Tags != nil {
		out.Tags = append([]string(nil), m.Tags...)
	}
	if m.Legacy != nil {
		out.Legacy = CopyFields(m.Legacy)
	}
	if m.DeletedAt != nil {
		ts := *m.DeletedAt
		out.DeletedAt = &ts
	}
	return out
}

// CopyFields returns a shallow copy of a field map. A nil map yields an
// empty, non-nil map.
func CopyFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// RelationType is the semantic type of an edge between two records.
type RelationType string

const (
	RelParentOf        RelationType = "parent_of"
	RelDependsOn       RelationType = "depends_on"
	RelImplements      RelationType = "implements"
	RelRelatesTo       RelationType = "relates_to"
	RelInspiredBy      RelationType = "inspired_by"
	RelTriggers        RelationType = "triggers"
	RelReferences      RelationType = "references"
	RelBlocks          RelationType = "blocks"
	RelAlternativeTo   RelationType = "alternative_to"
	RelPartOf          RelationType = "part_of"
	RelFollows         RelationType = "follows"
	RelIntegrationLink RelationType = "integration_link"
)

// RelationTypes lists every supported relation type.
var RelationTypes = []RelationType{
	RelParentOf,
	RelDependsOn,
	RelImplements,
	RelRelatesTo,
	RelInspiredBy,
	RelTriggers,
	RelReferences,
	RelBlocks,
	RelAlternativeTo,
	RelPartOf,
	RelFollows,
	RelIntegrationLink,
}

// IsValid reports whether the relation type is recognized.
func (t RelationType) IsValid() bool {
	for _, v := range RelationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Relation is a typed, directed edge between two record ids.
type Relation struct {
	ID        string       `json:"id"`
	SourceID  string       `json:"sourceId"`
	TargetID  string       `json:"targetId"`
	Type      RelationType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	Metadata  any          `json:"metadata,omitempty"`
	CreatedBy string       `json:"createdBy,omitempty"`
}
