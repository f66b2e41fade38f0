package client

import (
	"context"

	"github.com/aretw0/minions/pkg/core"
)

// Wrapper is a record bound to the client that produced it.
type Wrapper struct {
	Data core.Minion
	c    *Client
}

func (c *Client) wrap(m core.Minion) *Wrapper {
	return &Wrapper{Data: m, c: c}
}

// LinkTo adds a relation from the wrapped record to targetID.
func (w *Wrapper) LinkTo(targetID string, relType core.RelationType) (*Wrapper, error) {
	_, err := w.c.Link(core.CreateRelationInput{
		SourceID: w.Data.ID,
		TargetID: targetID,
		Type:     relType,
	})
	return w, err
}

// Save persists the wrapped record.
func (w *Wrapper) Save(ctx context.Context) error {
	return w.c.Save(ctx, w.Data)
}
