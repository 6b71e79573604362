package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Unmarshal(t *testing.T) {
	var m JSONMap
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Rain","duration_seconds":185}`), &m))
	assert.Equal(t, "Rain", m.GetString("title"))
	assert.Empty(t, m.GetString("duration_seconds"))
	assert.Empty(t, m.GetString("missing"))

	for _, in := range []string{`null`, `[]`, `"x"`, `1`} {
		var m JSONMap
		assert.ErrorIs(t, json.Unmarshal([]byte(in), &m), ErrNotObject, in)
	}
}

func TestJSONMap_Decode(t *testing.T) {
	type track struct {
		Title   string `json:"title"`
		Seconds int    `json:"duration_seconds"`
	}

	var got track
	require.NoError(t, JSONMap{"title": "Rain", "duration_seconds": 185}.Decode(&got))
	assert.Equal(t, track{Title: "Rain", Seconds: 185}, got)

	assert.Error(t, JSONMap{"title": "Rain", "bpm": 60}.Decode(&got))
	assert.Error(t, JSONMap{"duration_seconds": "long"}.Decode(&got))
}
