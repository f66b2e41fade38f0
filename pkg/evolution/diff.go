package evolution

import "github.com/aretw0/minions/pkg/core"

// ChangeKind classifies a schema difference.
type ChangeKind string

const (
	FieldAdded   ChangeKind = "added"
	FieldRemoved ChangeKind = "removed"
	FieldRetyped ChangeKind = "retyped"
)

// Change is one difference between two schema versions.
type Change struct {
	Kind    ChangeKind     `json:"kind"`
	Field   string         `json:"field"`
	OldType core.FieldType `json:"oldType,omitempty"`
	NewType core.FieldType `json:"newType,omitempty"`
}

// Diff lists removed and retyped fields in old-schema order, followed by
// added fields in new-schema order.
func Diff(oldSchema, newSchema []core.FieldDefinition) []Change {
	oldDefs := index(oldSchema)
	newDefs := index(newSchema)

	var changes []Change
	for _, def := range oldSchema {
		nd, ok := newDefs[def.Name]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: FieldRemoved, Field: def.Name, OldType: def.Type})
		case nd.Type != def.Type:
			changes = append(changes, Change{Kind: FieldRetyped, Field: def.Name, OldType: def.Type, NewType: nd.Type})
		}
	}
	for _, def := range newSchema {
		if _, ok := oldDefs[def.Name]; !ok {
			changes = append(changes, Change{Kind: FieldAdded, Field: def.Name, NewType: def.Type})
		}
	}
	return changes
}
