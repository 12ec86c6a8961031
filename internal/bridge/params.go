// SPDX-License-Identifier: MIT

package bridge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// coerceID converts an id-like parameter to int64. Absent values and empty
// strings coerce to zero so the caller's required-field check treats them as
// missing; anything non-numeric is a validation error, not a crash.
func coerceID(v any, field string) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%s must be an integer", field)
		}
		return int64(n), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", field)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", field)
	}
}

// coerceLimit converts an optional limit parameter, falling back to def when
// the parameter is absent.
func coerceLimit(v any, def int64) (int64, error) {
	if v == nil {
		return def, nil
	}
	limit, err := coerceID(v, "limit")
	if err != nil {
		return 0, err
	}
	return limit, nil
}

// putNonEmpty adds a value to a create payload unless it is empty. The
// backend treats an explicitly-empty field differently from an absent one
// (relational fields reject empty strings), so empties are dropped before
// the call.
func putNonEmpty(values map[string]any, field, value string) {
	if value == "" {
		return
	}
	values[field] = value
}
