package validation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minions/pkg/core"
)

func intp(v int) *int         { return &v }
func f64p(v float64) *float64 { return &v }

func TestEveryFieldTypeHasValidator(t *testing.T) {
	for _, ft := range core.FieldTypes {
		_, ok := validatorFor(ft)
		assert.True(t, ok, "no validator for %s", ft)
	}
	_, ok := validatorFor("blob")
	assert.False(t, ok)
}

func TestValidateFieldRequired(t *testing.T) {
	def := core.FieldDefinition{Name: "title", Type: core.FieldString, Required: true}

	for _, v := range []any{nil, ""} {
		errs := ValidateField(v, def)
		require.Len(t, errs, 1)
		assert.Equal(t, `Field "title" is required`, errs[0].Message)
		assert.Equal(t, "title", errs[0].Field)
	}

	// Required check stops further checks.
	def.Validation = &core.FieldValidation{MinLength: intp(3)}
	assert.Len(t, ValidateField("", def), 1)

	optional := core.FieldDefinition{Name: "x", Type: core.FieldNumber}
	assert.Empty(t, ValidateField(nil, optional))
	assert.Empty(t, ValidateField("", optional))
}

func TestValidateFieldTypes(t *testing.T) {
	cases := []struct {
		name  string
		def   core.FieldDefinition
		value any
		valid bool
		msg   string
	}{
		{"string ok", core.FieldDefinition{Type: core.FieldString}, "hi", true, ""},
		{"string wrong type", core.FieldDefinition{Type: core.FieldString}, 42, false, "Expected string, got number"},
		{"textarea ok", core.FieldDefinition{Type: core.FieldTextarea}, "long text", true, ""},
		{"number int", core.FieldDefinition{Type: core.FieldNumber}, 3, true, ""},
		{"number float", core.FieldDefinition{Type: core.FieldNumber}, 3.5, true, ""},
		{"number json.Number", core.FieldDefinition{Type: core.FieldNumber}, json.Number("12"), true, ""},
		{"number rejects bool", core.FieldDefinition{Type: core.FieldNumber}, true, false, "Expected number, got boolean"},
		{"number rejects string", core.FieldDefinition{Type: core.FieldNumber}, "3", false, "Expected number, got string"},
		{"number rejects NaN", core.FieldDefinition{Type: core.FieldNumber}, math.NaN(), false, "Expected number, got NaN"},
		{"boolean ok", core.FieldDefinition{Type: core.FieldBoolean}, false, true, ""},
		{"boolean rejects number", core.FieldDefinition{Type: core.FieldBoolean}, 1, false, "Expected boolean, got number"},
		{"date plain", core.FieldDefinition{Type: core.FieldDate}, "2024-01-15", true, ""},
		{"date utc", core.FieldDefinition{Type: core.FieldDate}, "2024-01-15T10:30:00Z", true, ""},
		{"date millis", core.FieldDefinition{Type: core.FieldDate}, "2024-01-15T10:30:00.123Z", true, ""},
		{"date offset", core.FieldDefinition{Type: core.FieldDate}, "2024-01-15T10:30:00+02:00", true, ""},
		{"date bare year", core.FieldDefinition{Type: core.FieldDate}, "2024", false, "Expected valid ISO 8601 date string"},
		{"date no zone", core.FieldDefinition{Type: core.FieldDate}, "2024-01-15T10:30:00", false, "Expected valid ISO 8601 date string"},
		{"date not string", core.FieldDefinition{Type: core.FieldDate}, 20240115, false, "Expected valid ISO 8601 date string"},
		{"select ok", core.FieldDefinition{Type: core.FieldSelect, Options: []string{"a", "b"}}, "a", true, ""},
		{"select no options", core.FieldDefinition{Type: core.FieldSelect}, "anything", true, ""},
		{"select not option", core.FieldDefinition{Type: core.FieldSelect, Options: []string{"a", "b"}}, "c", false, "Value must be one of: a, b"},
		{"select not string", core.FieldDefinition{Type: core.FieldSelect}, 1, false, "Expected string for select, got number"},
		{"multi-select ok", core.FieldDefinition{Type: core.FieldMultiSelect, Options: []string{"a", "b"}}, []any{"a", "b"}, true, ""},
		{"multi-select string slice", core.FieldDefinition{Type: core.FieldMultiSelect, Options: []string{"a"}}, []string{"a"}, true, ""},
		{"multi-select not list", core.FieldDefinition{Type: core.FieldMultiSelect}, "a", false, "Expected list for multi-select, got string"},
		{"url https", core.FieldDefinition{Type: core.FieldURL}, "https://x", true, ""},
		{"url wss", core.FieldDefinition{Type: core.FieldURL}, "wss://example.com/socket", true, ""},
		{"url ftp", core.FieldDefinition{Type: core.FieldURL}, "ftp://x", false, "Expected valid URL (http/https/ws/wss)"},
		{"url no host", core.FieldDefinition{Type: core.FieldURL}, "http://", false, "Expected valid URL (http/https/ws/wss)"},
		{"url relative", core.FieldDefinition{Type: core.FieldURL}, "/path", false, "Expected valid URL (http/https/ws/wss)"},
		{"email ok", core.FieldDefinition{Type: core.FieldEmail}, "a@b.co", true, ""},
		{"email no tld", core.FieldDefinition{Type: core.FieldEmail}, "a@b", false, "Expected valid email address"},
		{"email spaces", core.FieldDefinition{Type: core.FieldEmail}, "a b@c.d", false, "Expected valid email address"},
		{"tags ok", core.FieldDefinition{Type: core.FieldTags}, []string{"x", "y"}, true, ""},
		{"tags not list", core.FieldDefinition{Type: core.FieldTags}, "x", false, "Expected list for tags, got string"},
		{"json object", core.FieldDefinition{Type: core.FieldJSON}, map[string]any{"a": []any{1, "b"}}, true, ""},
		{"json scalar", core.FieldDefinition{Type: core.FieldJSON}, 42, true, ""},
		{"json func", core.FieldDefinition{Type: core.FieldJSON}, func() {}, false, "Expected JSON-serializable value"},
		{"array ok", core.FieldDefinition{Type: core.FieldArray}, []any{1, "two", nil}, true, ""},
		{"array not list", core.FieldDefinition{Type: core.FieldArray}, map[string]any{}, false, "Expected list, got object"},
		{"unknown type", core.FieldDefinition{Type: "blob"}, "x", false, "Unknown field type: blob"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.def.Name = "f"
			errs := ValidateField(tc.value, tc.def)
			if tc.valid {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tc.msg, errs[0].Message)
			assert.Equal(t, "f", errs[0].Field)
		})
	}
}

func TestValidateFieldMultipleErrors(t *testing.T) {
	t.Run("multi-select reports each bad item", func(t *testing.T) {
		def := core.FieldDefinition{Name: "m", Type: core.FieldMultiSelect, Options: []string{"a", "b"}}
		errs := ValidateField([]any{"a", "x", 3}, def)
		require.Len(t, errs, 2)
		assert.Equal(t, `Invalid option: "x". Must be one of: a, b`, errs[0].Message)
		assert.Equal(t, "x", errs[0].Value)
		assert.Equal(t, "Invalid option: 3. Must be one of: a, b", errs[1].Message)
	})

	t.Run("tags reports each non-string", func(t *testing.T) {
		def := core.FieldDefinition{Name: "tags", Type: core.FieldTags}
		errs := ValidateField([]any{"ok", 1, true}, def)
		require.Len(t, errs, 2)
		for _, e := range errs {
			assert.Equal(t, "Tag values must be strings", e.Message)
		}
	})
}

func TestStringConstraints(t *testing.T) {
	def := core.FieldDefinition{
		Name: "code",
		Type: core.FieldString,
		Validation: &core.FieldValidation{
			MinLength: intp(2),
			MaxLength: intp(4),
			Pattern:   `^[a-z]+$`,
		},
	}

	assert.Empty(t, ValidateField("abc", def))

	errs := ValidateField("A", def)
	require.Len(t, errs, 2)
	assert.Equal(t, "Must be at least 2 characters", errs[0].Message)
	assert.Equal(t, "Must match pattern: ^[a-z]+$", errs[1].Message)

	errs = ValidateField("abcde", def)
	require.Len(t, errs, 1)
	assert.Equal(t, "Must be at most 4 characters", errs[0].Message)

	// Length counts characters, not bytes.
	assert.Empty(t, ValidateField("çãé", core.FieldDefinition{Name: "u", Type: core.FieldString, Validation: &core.FieldValidation{MaxLength: intp(3)}}))

	bad := core.FieldDefinition{Name: "p", Type: core.FieldString, Validation: &core.FieldValidation{Pattern: "("}}
	errs = ValidateField("x", bad)
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid pattern: (", errs[0].Message)
}

func TestNumberConstraints(t *testing.T) {
	def := core.FieldDefinition{Name: "temperature", Type: core.FieldNumber, Validation: &core.FieldValidation{Min: f64p(0), Max: f64p(2)}}

	assert.Empty(t, ValidateField(1.5, def))
	assert.Empty(t, ValidateField(0, def))

	errs := ValidateField(-1, def)
	require.Len(t, errs, 1)
	assert.Equal(t, "Value must be >= 0", errs[0].Message)

	errs = ValidateField(2.5, def)
	require.Len(t, errs, 1)
	assert.Equal(t, "Value must be <= 2", errs[0].Message)
}

func TestValidateFields(t *testing.T) {
	schema := []core.FieldDefinition{
		{Name: "name", Type: core.FieldString, Required: true},
		{Name: "email", Type: core.FieldEmail},
		{Name: "age", Type: core.FieldNumber},
	}

	res := ValidateFields(map[string]any{"name": "Alice", "email": "alice@example.com"}, schema)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	res = ValidateFields(map[string]any{"email": "nope", "age": "old"}, schema)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, "name", res.Errors[0].Field)
	assert.Equal(t, "email", res.Errors[1].Field)
	assert.Equal(t, "age", res.Errors[2].Field)
}

func TestValidateEmptyFieldsRequiredIff(t *testing.T) {
	schemas := map[string][]core.FieldDefinition{
		"empty":        nil,
		"all optional": {{Name: "a", Type: core.FieldString}, {Name: "b", Type: core.FieldTags}},
		"one required": {{Name: "a", Type: core.FieldString}, {Name: "b", Type: core.FieldJSON, Required: true}},
		"all required": {{Name: "a", Type: core.FieldDate, Required: true}},
	}

	for name, schema := range schemas {
		t.Run(name, func(t *testing.T) {
			anyRequired := false
			for _, def := range schema {
				anyRequired = anyRequired || def.Required
			}
			res := ValidateFields(map[string]any{}, schema)
			assert.Equal(t, !anyRequired, res.Valid)
		})
	}
}
