package usecase

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mindcarehq/mindcare/internal/catalog/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
)

type ListInput struct {
	Category string `json:"category" validate:"max=60"`
	Featured *bool  `json:"featured"`
}

func (in ListInput) filter() entity.Filter {
	return entity.Filter{Category: strings.TrimSpace(in.Category), Featured: in.Featured}
}

func (s *Usecase) ListGuidance(ctx context.Context, in ListInput) ([]entity.Guidance, error) {
	ctx, span := s.startSpan(ctx, "ListGuidance")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListGuidance(ctx, in.filter())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list guidance", "error", err)
		return nil, goerror.NewServer(err)
	}

	for i := range items {
		if err := s.presign(ctx, &items[i].MediaURL, &items[i].Thumbnail); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *Usecase) ListMusic(ctx context.Context) ([]entity.Music, error) {
	ctx, span := s.startSpan(ctx, "ListMusic")
	defer span.End()

	items, err := s.repoDB.ListMusic(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list music", "error", err)
		return nil, goerror.NewServer(err)
	}

	for i := range items {
		if err := s.presign(ctx, &items[i].AudioURL, &items[i].Thumbnail); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *Usecase) ListBoosters(ctx context.Context) ([]entity.Booster, error) {
	ctx, span := s.startSpan(ctx, "ListBoosters")
	defer span.End()

	items, err := s.repoDB.ListBoosters(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list boosters", "error", err)
		return nil, goerror.NewServer(err)
	}

	for i := range items {
		if err := s.presign(ctx, &items[i].ResourceURL); err != nil {
			return nil, err
		}
	}

	return items, nil
}

func (s *Usecase) ListMeditations(ctx context.Context, in ListInput) ([]entity.Meditation, error) {
	ctx, span := s.startSpan(ctx, "ListMeditations")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListMeditations(ctx, in.filter())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list meditations", "error", err)
		return nil, goerror.NewServer(err)
	}

	for i := range items {
		m := &items[i]
		if err := s.presign(ctx, &m.AudioURL, &m.VideoURL, &m.Thumbnail); err != nil {
			return nil, err
		}
	}

	return items, nil
}

var labelSeparators = strings.NewReplacer("-", " ", "_", " ")

// ListCategories returns the distinct categories of every kind with a title
// cased label.
func (s *Usecase) ListCategories(ctx context.Context) ([]entity.Category, error) {
	ctx, span := s.startSpan(ctx, "ListCategories")
	defer span.End()

	cats, err := s.repoDB.ListCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list categories", "error", err)
		return nil, goerror.NewServer(err)
	}

	title := cases.Title(language.English)
	for i := range cats {
		cats[i].Label = title.String(labelSeparators.Replace(cats[i].Value))
	}

	return cats, nil
}
