package policy

import (
	"reflect"
	"sort"

	"github.com/sebastianliew/l2l-backend/internal/authz/model"
)

// GuardSensitiveFields vets a proposed update against field-level
// capabilities. For each field in fieldCaps that is present in proposed,
// differs from existing, and whose capability the principal lacks, the
// proposed value is reverted to the existing one. The rest of the payload is
// untouched: the update as a whole always proceeds, only the disallowed
// field mutations are suppressed.
//
// The returned payload is a copy; proposed is never mutated.
func (e *Engine) GuardSensitiveFields(
	p *model.Principal,
	category string,
	fieldCaps map[string]string,
	existing map[string]any,
	proposed map[string]any,
) (reverted []string, final map[string]any, err error) {
	final = make(map[string]any, len(proposed))
	for k, v := range proposed {
		final[k] = v
	}

	for field, capability := range fieldCaps {
		// Every gated field must reference a catalog pair even when the
		// field is absent from this payload, so a typo fails loudly.
		allowed, derr := e.HasPermission(p, category, capability)
		if derr != nil {
			return nil, nil, derr
		}

		proposedVal, present := proposed[field]
		if !present {
			continue
		}
		if valuesEqual(existing[field], proposedVal) {
			continue
		}
		if allowed {
			continue
		}

		if existingVal, ok := existing[field]; ok {
			final[field] = existingVal
		} else {
			delete(final, field)
		}
		reverted = append(reverted, field)
	}

	sort.Strings(reverted)
	return reverted, final, nil
}

// valuesEqual compares an existing field value against a proposed one.
// Numbers are compared by value across types: BSON decodes integers as
// int32/int64 while JSON payloads carry float64, and that mismatch must not
// read as a change.
func valuesEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
