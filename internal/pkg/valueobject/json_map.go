package valueobject

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotObject indicates the JSON value is not an object.
var ErrNotObject = errors.New("valueobject: json value is not an object")

// JSONMap holds a JSON object whose shape is only known after another field
// has been read, such as an item payload keyed by its kind.
type JSONMap map[string]any

// UnmarshalJSON rejects anything but an object so null and arrays do not
// decode into an empty map.
func (j *JSONMap) UnmarshalJSON(b []byte) error {
	if len(bytes.TrimSpace(b)) == 0 || bytes.TrimSpace(b)[0] != '{' {
		return ErrNotObject
	}

	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}

	*j = m
	return nil
}

// Decode re-encodes the map into dst. Keys that dst does not declare are
// an error.
func (j JSONMap) Decode(dst any) error {
	raw, err := json.Marshal(j)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// GetString returns "" if key is missing or not a string.
func (j JSONMap) GetString(key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}
