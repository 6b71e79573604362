package uid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeIsMonotonic(t *testing.T) {
	s, err := NewSnowflakeNode(1)
	require.NoError(t, err)

	prev := s.Generate()
	for range 100 {
		next := s.Generate()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestSnowflakeNodeOutOfRange(t *testing.T) {
	_, err := NewSnowflakeNode(4096)
	assert.Error(t, err)
}

func TestNodeFromNameIsStable(t *testing.T) {
	assert.Equal(t, nodeFromName("api-1"), nodeFromName("api-1"))
	assert.Less(t, nodeFromName("api-1"), int64(1024))
}

func TestTokenGenerate(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g := &Token{now: func() time.Time { return fixed }}

	a, b := g.Generate(), g.Generate()

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a[:12], b[:12])
}

func TestUUIDGenerate(t *testing.T) {
	id := NewUUID().Generate()
	assert.Len(t, id, 36)
	assert.Equal(t, byte('7'), id[14])
}
