package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/storage"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const defaultURLTTL = 15 * time.Minute

type repoDB interface {
	ListGuidance(ctx context.Context, f entity.Filter) ([]entity.Guidance, error)
	ListMusic(ctx context.Context) ([]entity.Music, error)
	ListBoosters(ctx context.Context) ([]entity.Booster, error)
	ListMeditations(ctx context.Context, f entity.Filter) ([]entity.Meditation, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)

	CreateGuidance(ctx context.Context, g entity.Guidance) error
	CreateMusic(ctx context.Context, m entity.Music) error
	CreateBooster(ctx context.Context, b entity.Booster) error
	CreateMeditation(ctx context.Context, m entity.Meditation) error
}

type Usecase struct {
	repoDB    repoDB
	storage   storage.Storage
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Storage    storage.Storage
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		storage:   dep.Storage,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("catalog.usecase").Start(ctx, name)
}

func (s *Usecase) ttl(key string) time.Duration {
	if d := s.cfg.GetMinute(key); d > 0 {
		return d
	}
	return defaultURLTTL
}

// presign replaces every field holding an object key with a signed download
// URL. Absolute URLs and empty fields are left alone.
func (s *Usecase) presign(ctx context.Context, fields ...*string) error {
	expiry := s.ttl("modules.catalog.media_url_ttl_minutes")

	for _, f := range fields {
		if !entity.IsObjectKey(*f) {
			continue
		}

		key := strings.TrimLeft(strings.TrimSpace(*f), "/")
		url, err := s.storage.PresignGet(ctx, key, expiry)
		if err != nil {
			slog.ErrorContext(ctx, "failed to presign media", "key", key, "error", err)
			return goerror.NewServer(err)
		}
		*f = url
	}

	return nil
}

// mediaField names a payload field holding a media reference.
type mediaField struct {
	name  string
	value string
}

// ensureUploaded checks that every object key refers to an uploaded object.
func (s *Usecase) ensureUploaded(ctx context.Context, fields ...mediaField) error {
	for _, f := range fields {
		if !entity.IsObjectKey(f.value) {
			continue
		}

		key := strings.TrimLeft(strings.TrimSpace(f.value), "/")
		_, err := s.storage.Stat(ctx, key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return goerror.NewInvalidInput(nil, f.name, "Media object has not been uploaded.")
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to stat media", "key", key, "error", err)
			return goerror.NewServer(err)
		}
	}

	return nil
}
