package usecase

import (
	"testing"

	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_SealedAtRest(t *testing.T) {
	s := newSuite(t)
	ctx := as(amy)

	out, err := s.uc.CreateJournal(ctx, CreateJournalInput{Title: "Morning", Note: "slept well", Mood: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "journal", out.EntryType)
	// t0 is 17:00 in Jakarta.
	assert.Equal(t, "01 Jan 2026 • 05:00 PM", out.FormattedDate)

	rec := s.db.journal[out.ID]
	assert.NotContains(t, string(rec.SealedNote), "slept well")

	list, err := s.uc.ListJournal(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "slept well", list[0].Note)
	assert.Equal(t, 4, *list[0].Mood)
}

func TestJournal_NoteBoundToOwner(t *testing.T) {
	s := newSuite(t)

	out, err := s.uc.CreateJournal(as(amy), CreateJournalInput{Note: "private"})
	require.NoError(t, err)

	// Move the row to another owner; it must no longer open.
	rec := s.db.journal[out.ID]
	rec.UserID = bob
	s.db.journal[out.ID] = rec

	_, err = s.uc.ListJournal(as(bob))
	assertCode(t, err, goerror.CodeInternal)
}

func TestJournal_DeleteAndValidation(t *testing.T) {
	s := newSuite(t)
	ctx := as(amy)

	_, err := s.uc.CreateJournal(ctx, CreateJournalInput{})
	assertCode(t, err, goerror.CodeInvalidInput)

	_, err = s.uc.CreateJournal(ctx, CreateJournalInput{Note: "x", Mood: ptr(9)})
	assertCode(t, err, goerror.CodeInvalidInput)

	out, err := s.uc.CreateJournal(ctx, CreateJournalInput{Title: "Only a title", EntryType: "gratitude"})
	require.NoError(t, err)
	assert.Equal(t, "gratitude", out.EntryType)

	assertCode(t, s.uc.DeleteJournal(as(bob), out.ID), goerror.CodeNotFound)
	require.NoError(t, s.uc.DeleteJournal(ctx, out.ID))
	assert.Empty(t, s.db.journal)
}
