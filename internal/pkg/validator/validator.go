// Package validator validates request structs and reports failures keyed by
// their JSON field names.
package validator

import (
	"encoding/json"
	"sort"
	"strings"
)

// Validator validates structs using their `validate` tags.
type Validator interface {
	Validate(data any) error
}

// ValidationError maps JSON field names to human readable messages.
type ValidationError map[string]string

func (ve ValidationError) Error() string {
	if len(ve) == 0 {
		return "validation error"
	}

	keys := make([]string, 0, len(ve))
	for k := range ve {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		b, _ := json.Marshal(ve[k]) //nolint:errchkjson // string always marshals
		parts = append(parts, k+"="+string(b))
	}
	return strings.Join(parts, " ")
}

// Values returns the field map.
func (ve ValidationError) Values() map[string]string {
	return ve
}
