package core

type unset struct{}

// Unset marks a field for removal in UpdateMinionInput.Fields.
// Omitting a key preserves the stored value; a nil value stores an explicit
// null; Unset deletes the key from the record.
var Unset = unset{}

// IsUnset reports whether v is the Unset sentinel.
func IsUnset(v any) bool {
	_, ok := v.(unset)
	return ok
}

// CreateMinionInput carries caller-supplied attributes for a new record.
type CreateMinionInput struct {
	Title       string         `json:"title"`
	Fields      map[string]any `json:"fields,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Status      MinionStatus   `json:"status,omitempty"`
	Priority    MinionPriority `json:"priority,omitempty"`
	Description string         `json:"description,omitempty"`
	DueDate     string         `json:"dueDate,omitempty"`
	CategoryID  string         `json:"categoryId,omitempty"`
	FolderID    string         `json:"folderId,omitempty"`
	CreatedBy   string         `json:"createdBy,omitempty"`
}

// UpdateMinionInput carries a partial update. Nil pointers and nil slices
// mean "not supplied" and keep the current value.
type UpdateMinionInput struct {
	Title       *string
	Fields      map[string]any
	Tags        []string
	Status      *MinionStatus
	Priority    *MinionPriority
	Description *string
	DueDate     *string
	CategoryID  *string
	FolderID    *string
	UpdatedBy   *string
}

// CreateRelationInput describes a new edge.
type CreateRelationInput struct {
	SourceID  string       `json:"sourceId" validate:"required"`
	TargetID  string       `json:"targetId" validate:"required"`
	Type      RelationType `json:"type" validate:"required"`
	Metadata  any          `json:"metadata,omitempty"`
	CreatedBy string       `json:"createdBy,omitempty"`
}
