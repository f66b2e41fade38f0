package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/aretw0/minions/pkg/core"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2}))?$`)

	patterns sync.Map // string -> *regexp.Regexp
)

// fieldValidator checks a present (non-absent) value of one field type.
type fieldValidator interface {
	validate(value any, def core.FieldDefinition) []core.ValidationError
}

// validatorFor maps every core.FieldType to its validator.
func validatorFor(t core.FieldType) (fieldValidator, bool) {
	switch t {
	case core.FieldString, core.FieldTextarea:
		return stringValidator{}, true
	case core.FieldNumber:
		return numberValidator{}, true
	case core.FieldBoolean:
		return booleanValidator{}, true
	case core.FieldDate:
		return dateValidator{}, true
	case core.FieldSelect:
		return selectValidator{}, true
	case core.FieldMultiSelect:
		return multiSelectValidator{}, true
	case core.FieldURL:
		return urlValidator{}, true
	case core.FieldEmail:
		return emailValidator{}, true
	case core.FieldTags:
		return tagsValidator{}, true
	case core.FieldJSON:
		return jsonValidator{}, true
	case core.FieldArray:
		return arrayValidator{}, true
	}
	return nil, false
}

func fail(def core.FieldDefinition, value any, format string, args ...any) core.ValidationError {
	return core.ValidationError{Field: def.Name, Message: fmt.Sprintf(format, args...), Value: value}
}

type stringValidator struct{}

func (stringValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	s, ok := value.(string)
	if !ok {
		return []core.ValidationError{fail(def, value, "Expected string, got %s", typeName(value))}
	}
	c := def.Validation
	if c == nil {
		return nil
	}

	var errs []core.ValidationError
	n := utf8.RuneCountInString(s)
	if c.MinLength != nil && n < *c.MinLength {
		errs = append(errs, fail(def, value, "Must be at least %d characters", *c.MinLength))
	}
	if c.MaxLength != nil && n > *c.MaxLength {
		errs = append(errs, fail(def, value, "Must be at most %d characters", *c.MaxLength))
	}
	if c.Pattern != "" {
		re, err := compilePattern(c.Pattern)
		if err != nil {
			errs = append(errs, fail(def, value, "Invalid pattern: %s", c.Pattern))
		} else if !re.MatchString(s) {
			errs = append(errs, fail(def, value, "Must match pattern: %s", c.Pattern))
		}
	}
	return errs
}

func compilePattern(p string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(p); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, err
	}
	patterns.Store(p, re)
	return re, nil
}

type numberValidator struct{}

func (numberValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	f, ok := AsNumber(value)
	if !ok {
		return []core.ValidationError{fail(def, value, "Expected number, got %s", typeName(value))}
	}
	if math.IsNaN(f) {
		return []core.ValidationError{fail(def, value, "Expected number, got NaN")}
	}
	c := def.Validation
	if c == nil {
		return nil
	}

	var errs []core.ValidationError
	if c.Min != nil && f < *c.Min {
		errs = append(errs, fail(def, value, "Value must be >= %s", formatNumber(*c.Min)))
	}
	if c.Max != nil && f > *c.Max {
		errs = append(errs, fail(def, value, "Value must be <= %s", formatNumber(*c.Max)))
	}
	return errs
}

type booleanValidator struct{}

func (booleanValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	if _, ok := value.(bool); !ok {
		return []core.ValidationError{fail(def, value, "Expected boolean, got %s", typeName(value))}
	}
	return nil
}

// dateValidator accepts YYYY-MM-DD with an optional time and zone. It checks
// shape only, not calendar validity.
type dateValidator struct{}

func (dateValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	s, ok := value.(string)
	if !ok || !dateRe.MatchString(s) {
		return []core.ValidationError{fail(def, value, "Expected valid ISO 8601 date string")}
	}
	return nil
}

type selectValidator struct{}

func (selectValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	s, ok := value.(string)
	if !ok {
		return []core.ValidationError{fail(def, value, "Expected string for select, got %s", typeName(value))}
	}
	if len(def.Options) > 0 && !slices.Contains(def.Options, s) {
		return []core.ValidationError{fail(def, value, "Value must be one of: %s", strings.Join(def.Options, ", "))}
	}
	return nil
}

type multiSelectValidator struct{}

func (multiSelectValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	items, ok := ListItems(value)
	if !ok {
		return []core.ValidationError{fail(def, value, "Expected list for multi-select, got %s", typeName(value))}
	}
	if len(def.Options) == 0 {
		return nil
	}

	var errs []core.ValidationError
	for _, item := range items {
		if s, ok := item.(string); ok && slices.Contains(def.Options, s) {
			continue
		}
		errs = append(errs, fail(def, item, "Invalid option: %s. Must be one of: %s", repr(item), strings.Join(def.Options, ", ")))
	}
	return errs
}

func repr(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}

type urlValidator struct{}

func (urlValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	s, ok := value.(string)
	if ok {
		u, err := url.Parse(s)
		if err == nil && u.Host != "" {
			switch u.Scheme {
			case "http", "https", "ws", "wss":
				return nil
			}
		}
	}
	return []core.ValidationError{fail(def, value, "Expected valid URL (http/https/ws/wss)")}
}

type emailValidator struct{}

func (emailValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	s, ok := value.(string)
	if !ok || !emailRe.MatchString(s) {
		return []core.ValidationError{fail(def, value, "Expected valid email address")}
	}
	return nil
}

type tagsValidator struct{}

func (tagsValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	items, ok := ListItems(value)
	if !ok {
		return []core.ValidationError{fail(def, value, "Expected list for tags, got %s", typeName(value))}
	}
	var errs []core.ValidationError
	for _, item := range items {
		if _, ok := item.(string); !ok {
			errs = append(errs, fail(def, item, "Tag values must be strings"))
		}
	}
	return errs
}

type jsonValidator struct{}

func (jsonValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	if _, err := json.Marshal(value); err != nil {
		return []core.ValidationError{fail(def, fmt.Sprintf("%#v", value), "Expected JSON-serializable value")}
	}
	return nil
}

type arrayValidator struct{}

func (arrayValidator) validate(value any, def core.FieldDefinition) []core.ValidationError {
	if !IsList(value) {
		return []core.ValidationError{fail(def, value, "Expected list, got %s", typeName(value))}
	}
	return nil
}
