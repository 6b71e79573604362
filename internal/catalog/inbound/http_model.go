package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
)

type GuidanceResponse struct {
	ID           int64  `json:"id,string"`
	ResourceType string `json:"resource_type"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Summary      string `json:"summary"`
	Category     string `json:"category"`
	Duration     string `json:"duration"`
	MediaURL     string `json:"media_url"`
	Thumbnail    string `json:"thumbnail"`
	IsFeatured   bool   `json:"is_featured"`
}

func newGuidanceResponse(g entity.Guidance) GuidanceResponse {
	return GuidanceResponse{
		ID:           g.ID,
		ResourceType: g.ResourceType,
		Title:        g.Title,
		Subtitle:     g.Subtitle,
		Summary:      g.Summary,
		Category:     g.Category,
		Duration:     g.Duration,
		MediaURL:     g.MediaURL,
		Thumbnail:    g.Thumbnail,
		IsFeatured:   g.IsFeatured,
	}
}

type MusicResponse struct {
	ID              int64  `json:"id,string"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"duration_seconds"`
	Duration        string `json:"duration"`
	AudioURL        string `json:"audio_url"`
	Mood            string `json:"mood"`
	Thumbnail       string `json:"thumbnail"`
}

func newMusicResponse(m entity.Music) MusicResponse {
	return MusicResponse{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		DurationSeconds: m.DurationSeconds,
		Duration:        m.Duration(),
		AudioURL:        m.AudioURL,
		Mood:            m.Mood,
		Thumbnail:       m.Thumbnail,
	}
}

type BoosterResponse struct {
	ID               int64  `json:"id,string"`
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	Icon             string `json:"icon"`
	ActionLabel      string `json:"action_label"`
	Prompt           string `json:"prompt"`
	EstimatedSeconds int    `json:"estimated_seconds"`
	ResourceURL      string `json:"resource_url"`
}

func newBoosterResponse(b entity.Booster) BoosterResponse {
	return BoosterResponse{
		ID:               b.ID,
		Title:            b.Title,
		Subtitle:         b.Subtitle,
		Description:      b.Description,
		Category:         b.Category,
		Icon:             b.Icon,
		ActionLabel:      b.ActionLabel,
		Prompt:           b.Prompt,
		EstimatedSeconds: b.EstimatedSeconds,
		ResourceURL:      b.ResourceURL,
	}
}

type MeditationResponse struct {
	ID              int64  `json:"id,string"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration_minutes"`
	Difficulty      string `json:"difficulty"`
	AudioURL        string `json:"audio_url"`
	VideoURL        string `json:"video_url"`
	IsFeatured      bool   `json:"is_featured"`
	Thumbnail       string `json:"thumbnail"`
}

func newMeditationResponse(m entity.Meditation) MeditationResponse {
	return MeditationResponse{
		ID:              m.ID,
		Title:           m.Title,
		Subtitle:        m.Subtitle,
		Description:     m.Description,
		Category:        m.Category,
		DurationMinutes: m.DurationMinutes,
		Difficulty:      m.Difficulty,
		AudioURL:        m.AudioURL,
		VideoURL:        m.VideoURL,
		IsFeatured:      m.IsFeatured,
		Thumbnail:       m.Thumbnail,
	}
}

type CategoryResponse struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// CategoriesResponse groups categories by kind.
type CategoriesResponse map[string][]CategoryResponse

func newCategoriesResponse(cats []entity.Category) CategoriesResponse {
	resp := CategoriesResponse{
		entity.KindGuidance.String():    {},
		entity.KindBoosters.String():    {},
		entity.KindMeditations.String(): {},
	}
	for _, c := range cats {
		resp[c.Kind.String()] = append(resp[c.Kind.String()], CategoryResponse{Kind: c.Kind.String(), Value: c.Value, Label: c.Label})
	}
	return resp
}

// ItemCreatedResponse carries one of the item responses.
type ItemCreatedResponse struct {
	Kind string `json:"kind"`
	Item any    `json:"item"`
}

func (ItemCreatedResponse) StatusCode() int { return http.StatusCreated }

func (ItemCreatedResponse) Message() string { return "Catalog item created" }

type CreateUploadRequest struct {
	Kind        string `json:"kind"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

type UploadResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (UploadResponse) StatusCode() int { return http.StatusCreated }

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	return lo.Map(in, func(item T, _ int) R { return fn(item) })
}
