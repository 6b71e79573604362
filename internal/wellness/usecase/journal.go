package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/seal"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
)

// FormattedDateLayout renders journal timestamps for display.
const FormattedDateLayout = "02 Jan 2006 • 03:04 PM"

var errJournalNotFound = goerror.NewBusiness("journal entry not found", goerror.CodeNotFound)

type JournalOutput struct {
	entity.JournalEntry
	FormattedDate string
}

func (s *Usecase) ListJournal(ctx context.Context) ([]JournalOutput, error) {
	ctx, span := s.startSpan(ctx, "ListJournal")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.repoDB.ListJournal(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list journal", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := make([]JournalOutput, 0, len(recs))
	for _, rec := range recs {
		note, err := s.sealer.Open(rec.SealedNote, noteScope(userID))
		if err != nil {
			slog.ErrorContext(ctx, "failed to open journal note", "entry_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out = append(out, s.journalOutput(rec, string(note)))
	}

	return out, nil
}

type CreateJournalInput struct {
	Title     string `json:"title" validate:"max=200"`
	Note      string `json:"note" validate:"required_without=Title,max=20000"`
	Mood      *int   `json:"mood" validate:"omitempty,min=1,max=5"`
	EntryType string `json:"entry_type" validate:"omitempty,max=30"`
}

func (s *Usecase) CreateJournal(ctx context.Context, in CreateJournalInput) (*JournalOutput, error) {
	ctx, span := s.startSpan(ctx, "CreateJournal")
	defer span.End()

	in.Title = strings.TrimSpace(in.Title)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	userID, err := authUserID(ctx)
	if err != nil {
		return nil, err
	}

	sealed, err := s.sealer.Seal([]byte(in.Note), noteScope(userID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to seal journal note", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	rec := entity.JournalRecord{
		ID:         s.uid.Generate(),
		UserID:     userID,
		Title:      in.Title,
		SealedNote: sealed,
		Mood:       in.Mood,
		EntryType:  lo.Ternary(strings.TrimSpace(in.EntryType) == "", entity.EntryTypeJournal, strings.TrimSpace(in.EntryType)),
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repoDB.CreateJournal(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to repo create journal", "user_id", userID, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := s.journalOutput(rec, in.Note)
	return &out, nil
}

func (s *Usecase) DeleteJournal(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "DeleteJournal")
	defer span.End()

	userID, err := authUserID(ctx)
	if err != nil {
		return err
	}

	err = s.repoDB.DeleteJournal(ctx, userID, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return errJournalNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete journal", "entry_id", id, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) journalOutput(rec entity.JournalRecord, note string) JournalOutput {
	return JournalOutput{
		JournalEntry: entity.JournalEntry{
			ID:        rec.ID,
			UserID:    rec.UserID,
			Title:     rec.Title,
			Note:      note,
			Mood:      rec.Mood,
			EntryType: rec.EntryType,
			CreatedAt: rec.CreatedAt,
		},
		FormattedDate: rec.CreatedAt.In(s.appLocation()).Format(FormattedDateLayout),
	}
}

func noteScope(userID int64) seal.Scope {
	return seal.Scope{OwnerID: userID, Purpose: seal.PurposeJournalNote}
}
