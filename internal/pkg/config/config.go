// Package config exposes typed access to dotted configuration keys such as
// `modules.identity.otp.ttl_minutes`.
package config

import (
	"io"
	"time"
)

// Config reads configuration values. Missing keys yield the zero value of the requested type.
type Config interface {
	io.Closer

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond, GetMinute, GetHour and GetDay read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray accepts either a list or a comma separated string. Blank items are dropped.
	GetArray(key string) []string

	// GetMap parses `k1:v1,k2:v2`.
	GetMap(key string) map[string]string
}
