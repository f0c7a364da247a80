// Package normalize repairs loosely-shaped JSON from an LLM into a declared
// schema. Each task describes its target shape as a declarative Schema (field
// name → aliases, kind, constraints, default) consumed by one shared routine.
//
// Field-level anomalies (renamed keys, wrong primitive types, out-of-range
// numbers, bad enum values) are repaired silently. The complete absence of a
// required top-level section is a hard failure: section names accumulate and
// Apply returns a *SectionError naming all of them, which callers treat as
// retryable content.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies how a field's value is coerced.
type Kind int

const (
	// String coerces any non-null scalar via stringification, with a named fallback.
	String Kind = iota
	// StringArray coerces to []string, substituting a fallback when absent.
	StringArray
	// Int parses a numeric value, defaulting and clamping into [Min, Max].
	Int
	// Bool takes the value if boolean, else the default.
	Bool
	// Enum checks exact membership in Values, else the neutral Default.
	Enum
	// Object applies Fields to a nested object, optionally wrapping a bare
	// scalar into {ScalarField: value}.
	Object
	// ObjectArray applies Fields to each element of an array of objects.
	ObjectArray
)

// Field describes one expected field of a schema.
type Field struct {
	// Name is the canonical key; Aliases are accepted in its place, checked
	// in order after the canonical name.
	Name    string
	Aliases []string
	Kind    Kind

	// Required marks a top-level section whose absence (under all aliases,
	// in any recognizable form) is a hard failure. Ignored on sub-fields.
	Required bool

	// Omit drops the key from the output when the value is absent, instead
	// of substituting a default. Used for optional context fields.
	Omit bool

	// Default is the fallback for String and the neutral value for Enum.
	Default string

	// Values enumerates the allowed Enum members.
	Values []string

	// Min, Max and IntDefault govern Int coercion. Min == Max == 0 means
	// no clamping.
	Min, Max   int
	IntDefault int

	// BoolDefault is the fallback for Bool.
	BoolDefault bool

	// Fallback replaces an absent or non-array StringArray. A nil Fallback
	// yields an empty array (optional context); a sentinel like
	// []string{"No data available"} marks data the model failed to supply.
	Fallback []string

	// MaxItems truncates arrays to a declared maximum. 0 means unbounded.
	MaxItems int

	// MinItems is a hard lower bound checked after truncation. 0 disables it.
	MinItems int

	// Fields describes the sub-fields of Object and ObjectArray kinds.
	Fields []Field

	// ScalarField, when set on an Object, wraps a bare primitive into the
	// minimal valid object using the primitive as this sub-field's value.
	ScalarField string
}

// Schema is the declared target shape for one task's normalized result.
type Schema struct {
	Sections []Field
}

// SectionError reports required top-level sections that could not be found
// under any alias in any recognizable form.
type SectionError struct {
	Sections []string
}

func (e *SectionError) Error() string {
	return "Missing or invalid sections: " + strings.Join(e.Sections, ", ")
}

// Apply normalizes parsed JSON against the schema. On success it returns a
// map using only canonical field names, suitable for decoding into the
// task's typed result. Already-conformant input passes through unchanged.
func (s *Schema) Apply(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Sections))
	var missing []string

	for i := range s.Sections {
		f := &s.Sections[i]
		raw, found := pick(data, f)

		if !found && f.Omit {
			continue
		}

		value, ok := coerce(f, raw, found)
		if f.Required && !ok {
			missing = append(missing, f.Name)
		}
		out[f.Name] = value
	}

	if len(missing) > 0 {
		return nil, &SectionError{Sections: missing}
	}

	// Hard length bounds are checked only after the section pass so a
	// single response reports every missing section at once.
	for i := range s.Sections {
		f := &s.Sections[i]
		if f.MinItems <= 0 {
			continue
		}
		if arr, isArr := out[f.Name].([]any); isArr && len(arr) < f.MinItems {
			return nil, fmt.Errorf("expected %d %q entries, got %d", f.MinItems, f.Name, len(arr))
		}
		if arr, isArr := out[f.Name].([]string); isArr && len(arr) < f.MinItems {
			return nil, fmt.Errorf("expected %d %q entries, got %d", f.MinItems, f.Name, len(arr))
		}
	}

	return out, nil
}

// pick resolves a field's value through its alias list, taking the first
// key that is present with a non-null value.
func pick(data map[string]any, f *Field) (any, bool) {
	if v, ok := data[f.Name]; ok && v != nil {
		return v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := data[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// coerce repairs one value into its declared kind. The second return value
// reports whether the section was present in some recognizable form; it only
// matters for Required top-level sections.
func coerce(f *Field, raw any, found bool) (any, bool) {
	switch f.Kind {
	case String:
		s := ensureString(raw, f.Default)
		return s, found && s != ""

	case StringArray:
		arr, isArr := toStringArray(raw)
		if !isArr {
			if f.Fallback != nil {
				arr = append([]string(nil), f.Fallback...)
			} else {
				arr = []string{}
			}
		}
		if f.MaxItems > 0 && len(arr) > f.MaxItems {
			arr = arr[:f.MaxItems]
		}
		return arr, isArr && len(arr) > 0

	case Int:
		return clampInt(raw, f), found

	case Bool:
		if b, isBool := raw.(bool); isBool {
			return b, true
		}
		return f.BoolDefault, found

	case Enum:
		s := ensureString(raw, "")
		for _, v := range f.Values {
			if s == v {
				return s, true
			}
		}
		return f.Default, found

	case Object:
		obj, isObj := raw.(map[string]any)
		if !isObj && found && f.ScalarField != "" && isScalar(raw) {
			// The model flattened the object to a primitive; rebuild the
			// minimal valid object around it. Array sub-fields become empty
			// rather than sentinel-filled: the wrap already records that the
			// model supplied nothing beyond the primary value.
			obj = map[string]any{f.ScalarField: raw}
			for i := range f.Fields {
				sub := &f.Fields[i]
				if sub.Kind == StringArray && sub.Name != f.ScalarField {
					obj[sub.Name] = []any{}
				}
			}
			isObj = true
		}
		out := make(map[string]any, len(f.Fields))
		for i := range f.Fields {
			sub := &f.Fields[i]
			subRaw, subFound := pickSub(obj, sub)
			if !subFound && sub.Omit {
				continue
			}
			v, _ := coerce(sub, subRaw, subFound)
			out[sub.Name] = v
		}
		return out, isObj

	case ObjectArray:
		arr, isArr := raw.([]any)
		items := make([]any, 0, len(arr))
		for _, el := range arr {
			obj, _ := el.(map[string]any)
			item := make(map[string]any, len(f.Fields))
			for i := range f.Fields {
				sub := &f.Fields[i]
				subRaw, subFound := pickSub(obj, sub)
				if !subFound && sub.Omit {
					continue
				}
				v, _ := coerce(sub, subRaw, subFound)
				item[sub.Name] = v
			}
			items = append(items, item)
		}
		if f.MaxItems > 0 && len(items) > f.MaxItems {
			items = items[:f.MaxItems]
		}
		return items, isArr && len(items) > 0
	}

	return raw, found
}

func pickSub(obj map[string]any, f *Field) (any, bool) {
	if obj == nil {
		return nil, false
	}
	return pick(obj, f)
}

// ensureString stringifies any non-null scalar, falling back to a named
// default for null/absent values.
func ensureString(v any, fallback string) string {
	switch s := v.(type) {
	case nil:
		return fallback
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toStringArray(v any) ([]string, bool) {
	arr, ok := v.([]any)
	if !ok {
		// Tolerate re-normalization of already-normalized values.
		if strs, isStrs := v.([]string); isStrs {
			return strs, true
		}
		return nil, false
	}
	out := make([]string, len(arr))
	for i, el := range arr {
		out[i] = ensureString(el, "")
	}
	return out, true
}

// clampInt parses a numeric value, defaults on parse failure, and clamps
// into the closed range with rounding when a range is declared.
func clampInt(v any, f *Field) int {
	n, ok := toNumber(v)
	if !ok {
		return f.IntDefault
	}
	r := int(math.Round(n))
	if f.Min == 0 && f.Max == 0 {
		return r
	}
	if r < f.Min {
		return f.Min
	}
	if r > f.Max {
		return f.Max
	}
	return r
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, float64, int, bool:
		return true
	default:
		return false
	}
}

// Score returns the Field settings shared by every 1-10 integer scale:
// midpoint default, clamped with rounding.
func Score(name string, aliases ...string) Field {
	return Field{
		Name:       name,
		Aliases:    aliases,
		Kind:       Int,
		Min:        1,
		Max:        10,
		IntDefault: 5,
	}
}
