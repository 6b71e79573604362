package entity

import (
	"fmt"
	"strings"
)

type Guidance struct {
	ID           int64
	ResourceType string
	Title        string
	Subtitle     string
	Summary      string
	Category     string
	Duration     string
	MediaURL     string
	Thumbnail    string
	IsFeatured   bool
}

type Music struct {
	ID              int64
	Title           string
	Description     string
	DurationSeconds int
	AudioURL        string
	Mood            string
	Thumbnail       string
}

// Duration renders DurationSeconds as MM:SS. Minutes are not capped at 59.
func (m Music) Duration() string {
	return fmt.Sprintf("%02d:%02d", m.DurationSeconds/60, m.DurationSeconds%60)
}

type Booster struct {
	ID               int64
	Title            string
	Subtitle         string
	Description      string
	Category         string
	Icon             string
	ActionLabel      string
	Prompt           string
	EstimatedSeconds int
	ResourceURL      string
}

type Meditation struct {
	ID              int64
	Title           string
	Subtitle        string
	Description     string
	Category        string
	DurationMinutes int
	Difficulty      string
	AudioURL        string
	VideoURL        string
	IsFeatured      bool
	Thumbnail       string
}

// Filter narrows guidance and meditation lists. Zero values match all.
type Filter struct {
	Category string
	Featured *bool
}

// Category is a distinct category value of one kind.
type Category struct {
	Kind  Kind
	Value string
	Label string
}

// IsObjectKey reports whether a media field holds a storage key rather than
// an absolute URL.
func IsObjectKey(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.Contains(v, "://")
}
