// Package equality implements the deep structural comparison used to decide
// whether an edit actually changed persisted state, so that callers can skip
// spurious snapshots and writes.
//
// The comparator is a typed recursion over a small closed set of shapes
// (primitive, sequence, mapping) rather than a generic reflective walk. One
// domain rule applies throughout: nil and the empty string are equivalent,
// because an unset field and an explicitly cleared field are indistinguishable
// to the vault.
package equality

import "github.com/haexhub/haexpass/internal/vault/models"

// Equal reports deep structural equality of a and b.
//
// Supported shapes: nil, string, bool, int, int64, float64, []any, []string,
// map[string]any. Sequences compare index-wise and must have the same length;
// mappings must have the same key set with recursively equal values. Values
// outside the closed set are never equal.
func Equal(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	// An unset field and a cleared field are the same thing.
	if nilOrEmptyString(a) && nilOrEmptyString(b) {
		return true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		return numberEqual(float64(av), b)
	case int64:
		return numberEqual(float64(av), b)
	case float64:
		return numberEqual(av, b)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func nilOrEmptyString(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func numberEqual(a float64, b any) bool {
	switch bv := b.(type) {
	case int:
		return a == float64(bv)
	case int64:
		return a == float64(bv)
	case float64:
		return a == bv
	default:
		return false
	}
}

// ItemDetailsEqual compares the user-editable fields of two item states.
// Timestamps are ignored; they change on every write.
func ItemDetailsEqual(a, b models.ItemDetails) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Username == b.Username &&
		a.Password == b.Password &&
		a.Note == b.Note &&
		a.Icon == b.Icon &&
		a.Tags == b.Tags &&
		a.URL == b.URL &&
		a.OtpSecret == b.OtpSecret
}

// KeyValuesEqual compares two key-value sets index-wise.
func KeyValuesEqual(a, b []models.KeyValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}

// GroupsEqual compares the user-editable fields of two groups, applying the
// nil-vs-empty rule to the optional parent reference.
func GroupsEqual(a, b models.Group) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Description == b.Description &&
		a.Icon == b.Icon &&
		a.Color == b.Color &&
		optionalIntEqual(a.Order, b.Order) &&
		optionalStringEqual(a.ParentID, b.ParentID)
}

func optionalIntEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func optionalStringEqual(a, b *string) bool {
	av, bv := "", ""
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}
