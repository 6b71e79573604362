// Package uid generates identifiers: snowflake numbers for rows, UUIDs for
// correlation, and opaque hex tokens for capabilities handed to clients.
package uid

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
