package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/valueobject"
)

var errItemExists = goerror.NewBusiness("catalog item already exists", goerror.CodeConflict)

type CreateItemInput struct {
	Kind    string              `json:"kind" validate:"required,oneof=guidance music boosters meditations"`
	Payload valueobject.JSONMap `json:"payload" validate:"required"`
}

type GuidanceInput struct {
	ResourceType string `json:"resource_type" validate:"omitempty,max=30"`
	Title        string `json:"title" validate:"required,max=200"`
	Subtitle     string `json:"subtitle" validate:"max=200"`
	Summary      string `json:"summary" validate:"max=5000"`
	Category     string `json:"category" validate:"max=60"`
	Duration     string `json:"duration" validate:"max=30"`
	MediaURL     string `json:"media_url" validate:"max=500"`
	Thumbnail    string `json:"thumbnail" validate:"max=500"`
	IsFeatured   bool   `json:"is_featured"`
}

type MusicInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=5000"`
	DurationSeconds int    `json:"duration_seconds" validate:"min=0"`
	AudioURL        string `json:"audio_url" validate:"required,max=500"`
	Mood            string `json:"mood" validate:"max=60"`
	Thumbnail       string `json:"thumbnail" validate:"max=500"`
}

type BoosterInput struct {
	Title            string `json:"title" validate:"required,max=200"`
	Subtitle         string `json:"subtitle" validate:"max=200"`
	Description      string `json:"description" validate:"max=5000"`
	Category         string `json:"category" validate:"max=60"`
	Icon             string `json:"icon" validate:"max=60"`
	ActionLabel      string `json:"action_label" validate:"max=60"`
	Prompt           string `json:"prompt" validate:"max=5000"`
	EstimatedSeconds int    `json:"estimated_seconds" validate:"min=0"`
	ResourceURL      string `json:"resource_url" validate:"max=500"`
}

type MeditationInput struct {
	Title           string `json:"title" validate:"required,max=200"`
	Subtitle        string `json:"subtitle" validate:"max=200"`
	Description     string `json:"description" validate:"max=5000"`
	Category        string `json:"category" validate:"max=60"`
	DurationMinutes int    `json:"duration_minutes" validate:"min=0"`
	Difficulty      string `json:"difficulty" validate:"max=30"`
	AudioURL        string `json:"audio_url" validate:"max=500"`
	VideoURL        string `json:"video_url" validate:"max=500"`
	IsFeatured      bool   `json:"is_featured"`
	Thumbnail       string `json:"thumbnail" validate:"max=500"`
}

// CreateItemOutput holds one of entity.Guidance, entity.Music,
// entity.Booster or entity.Meditation, matching Kind.
type CreateItemOutput struct {
	Kind entity.Kind
	Item any
}

func normCategory(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

// CreateItem stores a catalog item whose payload shape depends on kind. The
// returned item has its media rendered like the public lists.
func (s *Usecase) CreateItem(ctx context.Context, in CreateItemInput) (*CreateItemOutput, error) {
	ctx, span := s.startSpan(ctx, "CreateItem")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	kind := entity.Kind(in.Kind).Ensure()
	id := s.uid.Generate()

	var (
		item any
		err  error
	)
	switch kind {
	case entity.KindGuidance:
		item, err = s.createGuidance(ctx, id, in.Payload)
	case entity.KindMusic:
		item, err = s.createMusic(ctx, id, in.Payload)
	case entity.KindBoosters:
		item, err = s.createBooster(ctx, id, in.Payload)
	case entity.KindMeditations:
		item, err = s.createMeditation(ctx, id, in.Payload)
	}
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "catalog item created", "kind", kind, "id", id, "title", in.Payload.GetString("title"))

	return &CreateItemOutput{Kind: kind, Item: item}, nil
}

// decodePayload maps the payload onto dst and validates it.
func (s *Usecase) decodePayload(kind entity.Kind, payload valueobject.JSONMap, dst any) error {
	if err := payload.Decode(dst); err != nil {
		return goerror.NewInvalidFormat("payload does not match kind " + kind.String())
	}
	if err := s.validator.Validate(dst); err != nil {
		return goerror.NewInvalidInput(err)
	}
	return nil
}

func (s *Usecase) repoCreateError(ctx context.Context, kind entity.Kind, id int64, err error) error {
	if errors.Is(err, goerror.ErrConflict) {
		return errItemExists
	}
	slog.ErrorContext(ctx, "failed to repo create catalog item", "kind", kind, "id", id, "error", err)
	return goerror.NewServer(err)
}

func (s *Usecase) createGuidance(ctx context.Context, id int64, payload valueobject.JSONMap) (*entity.Guidance, error) {
	var in GuidanceInput
	if err := s.decodePayload(entity.KindGuidance, payload, &in); err != nil {
		return nil, err
	}

	g := entity.Guidance{
		ID:           id,
		ResourceType: lo.Ternary(strings.TrimSpace(in.ResourceType) == "", "article", strings.TrimSpace(in.ResourceType)),
		Title:        strings.TrimSpace(in.Title),
		Subtitle:     in.Subtitle,
		Summary:      in.Summary,
		Category:     normCategory(in.Category),
		Duration:     in.Duration,
		MediaURL:     strings.TrimSpace(in.MediaURL),
		Thumbnail:    strings.TrimSpace(in.Thumbnail),
		IsFeatured:   in.IsFeatured,
	}
	if err := s.ensureUploaded(ctx, mediaField{"media_url", g.MediaURL}, mediaField{"thumbnail", g.Thumbnail}); err != nil {
		return nil, err
	}
	if err := s.repoDB.CreateGuidance(ctx, g); err != nil {
		return nil, s.repoCreateError(ctx, entity.KindGuidance, id, err)
	}

	if err := s.presign(ctx, &g.MediaURL, &g.Thumbnail); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Usecase) createMusic(ctx context.Context, id int64, payload valueobject.JSONMap) (*entity.Music, error) {
	var in MusicInput
	if err := s.decodePayload(entity.KindMusic, payload, &in); err != nil {
		return nil, err
	}

	m := entity.Music{
		ID:              id,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		DurationSeconds: in.DurationSeconds,
		AudioURL:        strings.TrimSpace(in.AudioURL),
		Mood:            strings.TrimSpace(in.Mood),
		Thumbnail:       strings.TrimSpace(in.Thumbnail),
	}
	if err := s.ensureUploaded(ctx, mediaField{"audio_url", m.AudioURL}, mediaField{"thumbnail", m.Thumbnail}); err != nil {
		return nil, err
	}
	if err := s.repoDB.CreateMusic(ctx, m); err != nil {
		return nil, s.repoCreateError(ctx, entity.KindMusic, id, err)
	}

	if err := s.presign(ctx, &m.AudioURL, &m.Thumbnail); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Usecase) createBooster(ctx context.Context, id int64, payload valueobject.JSONMap) (*entity.Booster, error) {
	var in BoosterInput
	if err := s.decodePayload(entity.KindBoosters, payload, &in); err != nil {
		return nil, err
	}

	b := entity.Booster{
		ID:               id,
		Title:            strings.TrimSpace(in.Title),
		Subtitle:         in.Subtitle,
		Description:      in.Description,
		Category:         normCategory(in.Category),
		Icon:             in.Icon,
		ActionLabel:      in.ActionLabel,
		Prompt:           in.Prompt,
		EstimatedSeconds: in.EstimatedSeconds,
		ResourceURL:      strings.TrimSpace(in.ResourceURL),
	}
	if err := s.ensureUploaded(ctx, mediaField{"resource_url", b.ResourceURL}); err != nil {
		return nil, err
	}
	if err := s.repoDB.CreateBooster(ctx, b); err != nil {
		return nil, s.repoCreateError(ctx, entity.KindBoosters, id, err)
	}

	if err := s.presign(ctx, &b.ResourceURL); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Usecase) createMeditation(ctx context.Context, id int64, payload valueobject.JSONMap) (*entity.Meditation, error) {
	var in MeditationInput
	if err := s.decodePayload(entity.KindMeditations, payload, &in); err != nil {
		return nil, err
	}

	m := entity.Meditation{
		ID:              id,
		Title:           strings.TrimSpace(in.Title),
		Subtitle:        in.Subtitle,
		Description:     in.Description,
		Category:        normCategory(in.Category),
		DurationMinutes: in.DurationMinutes,
		Difficulty:      in.Difficulty,
		AudioURL:        strings.TrimSpace(in.AudioURL),
		VideoURL:        strings.TrimSpace(in.VideoURL),
		IsFeatured:      in.IsFeatured,
		Thumbnail:       strings.TrimSpace(in.Thumbnail),
	}
	if err := s.ensureUploaded(ctx,
		mediaField{"audio_url", m.AudioURL},
		mediaField{"video_url", m.VideoURL},
		mediaField{"thumbnail", m.Thumbnail},
	); err != nil {
		return nil, err
	}
	if err := s.repoDB.CreateMeditation(ctx, m); err != nil {
		return nil, s.repoCreateError(ctx, entity.KindMeditations, id, err)
	}

	if err := s.presign(ctx, &m.AudioURL, &m.VideoURL, &m.Thumbnail); err != nil {
		return nil, err
	}
	return &m, nil
}

type CreateUploadInput struct {
	Kind        string `json:"kind" validate:"required,oneof=guidance music boosters meditations"`
	FileName    string `json:"file_name" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"required,oneof=audio/mpeg audio/mp4 audio/wav image/jpeg image/png image/webp video/mp4"`
}

type UploadOutput struct {
	Key       string
	URL       string
	Method    string
	ExpiresAt time.Time
}

// CreateUpload reserves an object key under the kind prefix and returns a
// signed PUT URL for it. The key is what CreateItem expects in media fields.
func (s *Usecase) CreateUpload(ctx context.Context, in CreateUploadInput) (*UploadOutput, error) {
	ctx, span := s.startSpan(ctx, "CreateUpload")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	key := fmt.Sprintf("%s/%d%s", in.Kind, s.uid.Generate(), extension(in.FileName))
	expiry := s.ttl("modules.catalog.upload_url_ttl_minutes")

	url, err := s.storage.PresignPut(ctx, key, in.ContentType, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign upload", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UploadOutput{
		Key:       key,
		URL:       url,
		Method:    "PUT",
		ExpiresAt: s.clock.Now().Add(expiry),
	}, nil
}

// extension returns the lowercased file extension, or "" when it is not a
// short alphanumeric suffix.
func extension(name string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(name)))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
