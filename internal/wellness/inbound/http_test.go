package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
	"github.com/mindcarehq/mindcare/internal/wellness/usecase"
)

var at = time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

type fakeUC struct {
	moodIn     usecase.UpdateMoodInput
	rechargeIn usecase.RechargeWalletInput
	replayed   bool
	useErr     error
	taskIn     usecase.CreateTaskInput
	taskPatch  usecase.UpdateTaskInput
	deletedID  int64
	listIn     *usecase.ListSessionsInput
	quickIn    usecase.QuickSessionInput
}

func (f *fakeUC) UpdateMood(_ context.Context, in usecase.UpdateMoodInput) (*entity.MoodState, error) {
	f.moodIn = in
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	return &entity.MoodState{LastMood: &in.Value, LastMoodUpdated: &at, MoodUpdatesCount: 2, MoodUpdatesDate: &day}, nil
}

func (f *fakeUC) Wallet(context.Context) (*usecase.WalletOutput, error) {
	return &usecase.WalletOutput{
		Minutes: 30,
		Transactions: []entity.WalletTransaction{
			{ID: 9, Kind: entity.TransactionUsage, Service: entity.ServiceChat, Minutes: 10, BalanceAfter: 30, CreatedAt: at},
		},
	}, nil
}

func (f *fakeUC) RechargeWallet(_ context.Context, in usecase.RechargeWalletInput) (*usecase.WalletChangeOutput, error) {
	f.rechargeIn = in
	return &usecase.WalletChangeOutput{
		Minutes:     in.Minutes,
		Transaction: entity.WalletTransaction{ID: 5, Kind: entity.TransactionRecharge, Minutes: in.Minutes, BalanceAfter: in.Minutes, CreatedAt: at},
		Replayed:    f.replayed,
	}, nil
}

func (f *fakeUC) UseWallet(context.Context, usecase.UseWalletInput) (*usecase.WalletChangeOutput, error) {
	return nil, f.useErr
}

func (f *fakeUC) ListTasks(context.Context) ([]entity.Task, error) { return nil, nil }

func (f *fakeUC) CreateTask(_ context.Context, in usecase.CreateTaskInput) (*entity.Task, error) {
	f.taskIn = in
	return &entity.Task{ID: 77, Title: in.Title, Order: in.Order, CreatedAt: at, UpdatedAt: at}, nil
}

func (f *fakeUC) UpdateTask(_ context.Context, in usecase.UpdateTaskInput) (*entity.Task, error) {
	f.taskPatch = in
	return &entity.Task{ID: in.ID, Title: "t", IsCompleted: true}, nil
}

func (f *fakeUC) DeleteTask(_ context.Context, id int64) error {
	f.deletedID = id
	return nil
}

func (f *fakeUC) ListJournal(context.Context) ([]usecase.JournalOutput, error) {
	return []usecase.JournalOutput{{
		JournalEntry:  entity.JournalEntry{ID: 3, Title: "Day", Note: "calm", EntryType: entity.EntryTypeJournal, CreatedAt: at},
		FormattedDate: "04 Mar 2026 • 04:30 PM",
	}}, nil
}

func (f *fakeUC) CreateJournal(_ context.Context, in usecase.CreateJournalInput) (*usecase.JournalOutput, error) {
	return &usecase.JournalOutput{JournalEntry: entity.JournalEntry{ID: 4, Note: in.Note, Mood: in.Mood}}, nil
}

func (f *fakeUC) DeleteJournal(context.Context, int64) error {
	return goerror.NewBusiness("journal entry not found", goerror.CodeNotFound)
}

func (f *fakeUC) ListGroups(context.Context) ([]entity.SupportGroup, error) {
	return []entity.SupportGroup{{ID: 1, Slug: "sleep-better", Name: "Sleep Better", IsJoined: true}}, nil
}

func (f *fakeUC) JoinOrLeaveGroup(_ context.Context, in usecase.GroupMembershipInput) (*entity.SupportGroup, error) {
	return &entity.SupportGroup{Slug: in.Slug, IsJoined: in.Action == "join"}, nil
}

func (f *fakeUC) ListSessions(_ context.Context, in usecase.ListSessionsInput) ([]entity.Session, error) {
	f.listIn = &in
	return []entity.Session{}, nil
}

func (f *fakeUC) CreateSession(_ context.Context, in usecase.CreateSessionInput) (*entity.Session, error) {
	return &entity.Session{ID: 8, Title: in.Title, StartTime: in.StartTime}, nil
}

func (f *fakeUC) UpdateSession(_ context.Context, in usecase.UpdateSessionInput) (*entity.Session, error) {
	return &entity.Session{ID: in.ID}, nil
}

func (f *fakeUC) DeleteSession(context.Context, int64) error { return nil }

func (f *fakeUC) QuickSession(_ context.Context, in usecase.QuickSessionInput) (*entity.Session, error) {
	f.quickIn = in
	return &entity.Session{ID: 12, Title: "Quick session", SessionType: entity.SessionTypeQuick}, nil
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

func setup(t *testing.T) (*router.Router, *fakeUC, string) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{Secret: []byte(strings.Repeat("k", 64)), Issuer: "test", TTL: time.Hour})
	require.NoError(t, err)
	token, _, err := signer.Generate(jwt.Subject{UserID: 7, Email: "a@x.com", Role: "member"})
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       fixedID("cid"),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
	})
	uc := &fakeUC{}
	RegisterHTTPEndpoint(r, uc)

	return r, uc, token
}

func do(r http.Handler, method, path, body, token string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestRequiresToken(t *testing.T) {
	r, _, _ := setup(t)

	for _, path := range []string{"/api/v1/wellness/wallet", "/api/v1/wellness/tasks", "/api/v1/wellness/sessions"} {
		rec, _ := do(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestUpdateMood(t *testing.T) {
	r, uc, token := setup(t)

	rec, out := do(r, http.MethodPost, "/api/v1/wellness/mood", `{"value":4,"timezone":"Asia/Jakarta"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.UpdateMoodInput{Value: 4, Timezone: "Asia/Jakarta"}, uc.moodIn)

	data := out["data"].(map[string]any)
	assert.InDelta(t, 4, data["last_mood"], 0)
	assert.InDelta(t, 2, data["mood_updates_count"], 0)
	assert.Equal(t, "2026-03-04", data["mood_updates_date"])
}

func TestWallet(t *testing.T) {
	r, _, token := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/wellness/wallet", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	data := out["data"].(map[string]any)
	assert.InDelta(t, 30, data["wallet_minutes"], 0)
	txs := data["transactions"].([]any)
	require.Len(t, txs, 1)
	tx := txs[0].(map[string]any)
	assert.Equal(t, "9", tx["id"])
	assert.Equal(t, "usage", tx["kind"])
	assert.Equal(t, "chat", tx["service"])
}

func TestRechargeWallet_PassesIdempotencyKey(t *testing.T) {
	r, uc, token := setup(t)

	rec, out := do(r, http.MethodPost, "/api/v1/wellness/wallet/recharge", `{"minutes":60}`, token, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.RechargeWalletInput{Minutes: 60, IdempotencyKey: "k-1"}, uc.rechargeIn)
	assert.Equal(t, "Wallet recharged", out["message"])
	assert.Nil(t, out["meta"])

	uc.replayed = true
	_, out = do(r, http.MethodPost, "/api/v1/wellness/wallet/recharge", `{"minutes":60}`, token, "Idempotency-Key", "k-1")
	assert.Equal(t, map[string]any{"idempotent_replay": true}, out["meta"])
}

func TestUseWallet_Insufficient(t *testing.T) {
	r, uc, token := setup(t)
	uc.useErr = goerror.NewBusiness("insufficient wallet minutes", goerror.CodeConflict)

	rec, out := do(r, http.MethodPost, "/api/v1/wellness/wallet/usage", `{"service":"call","minutes":5}`, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient wallet minutes", out["message"])
}

func TestTasks(t *testing.T) {
	r, uc, token := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/wellness/tasks", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, out["data"])

	rec, out = do(r, http.MethodPost, "/api/v1/wellness/tasks", `{"title":"Walk","order":2}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Walk", uc.taskIn.Title)
	assert.Equal(t, 2, uc.taskIn.Order)
	assert.Equal(t, "77", out["data"].(map[string]any)["id"])

	rec, _ = do(r, http.MethodPatch, "/api/v1/wellness/tasks/77", `{"is_completed":true}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(77), uc.taskPatch.ID)
	require.NotNil(t, uc.taskPatch.IsCompleted)
	assert.Nil(t, uc.taskPatch.Title)

	rec, _ = do(r, http.MethodDelete, "/api/v1/wellness/tasks/77", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(77), uc.deletedID)

	rec, _ = do(r, http.MethodDelete, "/api/v1/wellness/tasks/abc", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJournal(t *testing.T) {
	r, _, token := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/wellness/journal", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	entry := out["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "calm", entry["note"])
	assert.Equal(t, "04 Mar 2026 • 04:30 PM", entry["formatted_date"])

	rec, out = do(r, http.MethodPost, "/api/v1/wellness/journal", `{"note":"ok","mood":3}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.InDelta(t, 3, out["data"].(map[string]any)["mood"], 0)

	rec, _ = do(r, http.MethodDelete, "/api/v1/wellness/journal/4", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroups(t *testing.T) {
	r, _, token := setup(t)

	rec, out := do(r, http.MethodGet, "/api/v1/wellness/groups", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["data"].([]any)[0].(map[string]any)["is_joined"])

	rec, out = do(r, http.MethodPost, "/api/v1/wellness/groups/membership", `{"slug":"sleep-better","action":"leave"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["data"].(map[string]any)["is_joined"])
}

func TestSessions(t *testing.T) {
	r, uc, token := setup(t)

	rec, _ := do(r, http.MethodGet, "/api/v1/wellness/sessions?upcoming=true", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.listIn)
	assert.True(t, uc.listIn.Upcoming)

	rec, _ = do(r, http.MethodGet, "/api/v1/wellness/sessions?upcoming=maybe", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out := do(r, http.MethodPost, "/api/v1/wellness/sessions",
		`{"title":"Talk","start_time":"2026-03-05T10:00:00Z"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "8", out["data"].(map[string]any)["id"])

	rec, out = do(r, http.MethodPost, "/api/v1/wellness/sessions/quick", `{"date":"2026-03-05","time":"14:00"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "14:00", uc.quickIn.Time)
	assert.Equal(t, "quick", out["data"].(map[string]any)["session_type"])

	rec, _ = do(r, http.MethodPatch, "/api/v1/wellness/sessions/8", `{"is_confirmed":true}`, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(r, http.MethodDelete, "/api/v1/wellness/sessions/8", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
