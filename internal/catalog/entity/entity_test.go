package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMusicDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{185, "03:05"},
		{3600, "60:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Music{DurationSeconds: tt.seconds}.Duration())
		})
	}
}

func TestIsObjectKey(t *testing.T) {
	assert.True(t, IsObjectKey("music/calm.mp3"))
	assert.False(t, IsObjectKey(""))
	assert.False(t, IsObjectKey("  "))
	assert.False(t, IsObjectKey("https://cdn.example.com/calm.mp3"))
	assert.False(t, IsObjectKey("s3://bucket/calm.mp3"))
}

func TestKindEnsure(t *testing.T) {
	assert.Equal(t, KindMusic, Kind("music").Ensure())
	assert.Equal(t, KindUnknown, Kind("podcasts").Ensure())
}
