package fs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/minions/pkg/core"
)

// Serializer defines how records are encoded in a specific file format.
type Serializer interface {
	// Ext is the file extension, including the dot.
	Ext() string
	// Marshal converts a record to bytes.
	Marshal(m core.Minion) ([]byte, error)
	// Unmarshal parses bytes into a record.
	Unmarshal(data []byte) (core.Minion, error)
}

// SerializerFor returns the serializer for a format name ("json" or "yaml").
func SerializerFor(format string, strict bool) (Serializer, error) {
	switch format {
	case "", "json":
		return NewJSONSerializer(strict), nil
	case "yaml", "yml":
		return NewYAMLSerializer(strict), nil
	}
	return nil, fmt.Errorf("unsupported storage format %q", format)
}

// --- JSON Serializer ---

// JSONSerializer stores records as pretty-printed JSON.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Ext() string { return ".json" }

func (s *JSONSerializer) Marshal(m core.Minion) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *JSONSerializer) Unmarshal(data []byte) (core.Minion, error) {
	var m core.Minion
	dec := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		dec.UseNumber()
	}
	if err := dec.Decode(&m); err != nil {
		return core.Minion{}, fmt.Errorf("failed to parse json record: %w", err)
	}
	if m.ID == "" {
		return core.Minion{}, fmt.Errorf("record has no id")
	}
	if m.Fields == nil {
		m.Fields = map[string]any{}
	}
	return m, nil
}

// --- YAML Serializer ---

// YAMLSerializer stores records as YAML documents using the same attribute
// names as the JSON form.
type YAMLSerializer struct {
	Strict bool
	json   *JSONSerializer
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict, json: NewJSONSerializer(strict)}
}

func (s *YAMLSerializer) Ext() string { return ".yaml" }

func (s *YAMLSerializer) Marshal(m core.Minion) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(payload); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *YAMLSerializer) Unmarshal(data []byte) (core.Minion, error) {
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return core.Minion{}, fmt.Errorf("failed to parse yaml record: %w", err)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return core.Minion{}, fmt.Errorf("yaml record is not representable as json: %w", err)
	}
	return s.json.Unmarshal(raw)
}
