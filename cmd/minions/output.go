package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/minions/pkg/client"
	"github.com/aretw0/minions/pkg/core"
)

// parseFields turns repeated k=v flags into a field map. Values are decoded
// as JSON when possible and kept as plain strings otherwise.
func parseFields(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", pair)
		}

		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		fields[key] = v
	}
	return fields, nil
}

func loadMinion(ctx context.Context, c *client.Client, id string) (core.Minion, error) {
	m, ok, err := c.Load(ctx, id)
	if err != nil {
		return core.Minion{}, err
	}
	if !ok {
		return core.Minion{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return m, nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printMinions writes one line per record: id, type slug and title.
func printMinions(w io.Writer, c *client.Client, ms []core.Minion) {
	for _, m := range ms {
		slug := m.MinionTypeID
		if t, ok := c.Registry().GetByID(m.MinionTypeID); ok {
			slug = t.Slug
		}
		line := fmt.Sprintf("%s  %-16s %s", m.ID, slug, m.Title)
		if m.IsDeleted() {
			line += "  (deleted)"
		}
		fmt.Fprintln(w, line)
	}
}
