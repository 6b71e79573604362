package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/mindcarehq/mindcare/internal/wellness/entity"
	"github.com/mindcarehq/mindcare/internal/wellness/usecase"
)

type UpdateMoodRequest struct {
	Value    int    `json:"value"`
	Timezone string `json:"timezone"`
}

type MoodResponse struct {
	LastMood         *int       `json:"last_mood"`
	LastMoodUpdated  *time.Time `json:"last_mood_updated"`
	MoodUpdatesCount int        `json:"mood_updates_count"`
	MoodUpdatesDate  *string    `json:"mood_updates_date"`
}

func (MoodResponse) Message() string { return "Mood updated" }

func newMoodResponse(m *entity.MoodState) MoodResponse {
	resp := MoodResponse{
		LastMood:         m.LastMood,
		LastMoodUpdated:  m.LastMoodUpdated,
		MoodUpdatesCount: m.MoodUpdatesCount,
	}
	if m.MoodUpdatesDate != nil {
		d := m.MoodUpdatesDate.Format(time.DateOnly)
		resp.MoodUpdatesDate = &d
	}
	return resp
}

type WalletTransactionResponse struct {
	ID           int64     `json:"id,string"`
	Kind         string    `json:"kind"`
	Service      string    `json:"service,omitempty"`
	Minutes      int       `json:"minutes"`
	BalanceAfter int       `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

func newWalletTransactionResponse(t entity.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:           t.ID,
		Kind:         string(t.Kind),
		Service:      t.Service.String(),
		Minutes:      t.Minutes,
		BalanceAfter: t.BalanceAfter,
		CreatedAt:    t.CreatedAt,
	}
}

type WalletResponse struct {
	WalletMinutes int                         `json:"wallet_minutes"`
	Transactions  []WalletTransactionResponse `json:"transactions"`
}

type RechargeWalletRequest struct {
	Minutes int `json:"minutes"`
}

type UseWalletRequest struct {
	Service string `json:"service"`
	Minutes int    `json:"minutes"`
}

type WalletChangeResponse struct {
	WalletMinutes int                       `json:"wallet_minutes"`
	Transaction   WalletTransactionResponse `json:"transaction"`
	message       string
	replayed      bool
}

func (w WalletChangeResponse) Message() string { return w.message }

func (w WalletChangeResponse) Meta() map[string]any {
	if !w.replayed {
		return nil
	}
	return map[string]any{"idempotent_replay": true}
}

func newWalletChangeResponse(out *usecase.WalletChangeOutput, msg string) WalletChangeResponse {
	return WalletChangeResponse{
		WalletMinutes: out.Minutes,
		Transaction:   newWalletTransactionResponse(out.Transaction),
		message:       msg,
		replayed:      out.Replayed,
	}
}

type TaskRequest struct {
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	IsCompleted *bool   `json:"is_completed"`
	Order       *int    `json:"order"`
}

type TaskResponse struct {
	ID          int64     `json:"id,string"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	IsCompleted bool      `json:"is_completed"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(t entity.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Category:    t.Category,
		IsCompleted: t.IsCompleted,
		Order:       t.Order,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type TaskCreatedResponse struct {
	TaskResponse
}

func (TaskCreatedResponse) StatusCode() int { return http.StatusCreated }

func (TaskCreatedResponse) Message() string { return "Task created" }

type JournalRequest struct {
	Title     string `json:"title"`
	Note      string `json:"note"`
	Mood      *int   `json:"mood"`
	EntryType string `json:"entry_type"`
}

type JournalResponse struct {
	ID            int64     `json:"id,string"`
	Title         string    `json:"title"`
	Note          string    `json:"note"`
	Mood          *int      `json:"mood"`
	EntryType     string    `json:"entry_type"`
	CreatedAt     time.Time `json:"created_at"`
	FormattedDate string    `json:"formatted_date"`
}

func newJournalResponse(j usecase.JournalOutput) JournalResponse {
	return JournalResponse{
		ID:            j.ID,
		Title:         j.Title,
		Note:          j.Note,
		Mood:          j.Mood,
		EntryType:     j.EntryType,
		CreatedAt:     j.CreatedAt,
		FormattedDate: j.FormattedDate,
	}
}

type JournalCreatedResponse struct {
	JournalResponse
}

func (JournalCreatedResponse) StatusCode() int { return http.StatusCreated }

func (JournalCreatedResponse) Message() string { return "Journal entry saved" }

type GroupMembershipRequest struct {
	Slug   string `json:"slug"`
	Action string `json:"action"`
}

type GroupResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsJoined    bool   `json:"is_joined"`
}

func newGroupResponse(g entity.SupportGroup) GroupResponse {
	return GroupResponse{
		Slug:        g.Slug,
		Name:        g.Name,
		Description: g.Description,
		Icon:        g.Icon,
		IsJoined:    g.IsJoined,
	}
}

type SessionRequest struct {
	Title          *string    `json:"title"`
	SessionType    *string    `json:"session_type"`
	StartTime      *time.Time `json:"start_time"`
	CounsellorName *string    `json:"counsellor_name"`
	Notes          *string    `json:"notes"`
	IsConfirmed    *bool      `json:"is_confirmed"`
}

type QuickSessionRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Title string `json:"title"`
	Notes string `json:"notes"`
}

type SessionResponse struct {
	ID             int64     `json:"id,string"`
	Title          string    `json:"title"`
	SessionType    string    `json:"session_type"`
	StartTime      time.Time `json:"start_time"`
	CounsellorName string    `json:"counsellor_name"`
	Notes          string    `json:"notes"`
	IsConfirmed    bool      `json:"is_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newSessionResponse(s entity.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		Title:          s.Title,
		SessionType:    s.SessionType,
		StartTime:      s.StartTime,
		CounsellorName: s.CounsellorName,
		Notes:          s.Notes,
		IsConfirmed:    s.IsConfirmed,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	return lo.Map(in, func(item T, _ int) R { return fn(item) })
}

type SessionCreatedResponse struct {
	SessionResponse
}

func (SessionCreatedResponse) StatusCode() int { return http.StatusCreated }

func (SessionCreatedResponse) Message() string { return "Session booked" }
