package inbound

import (
	"github.com/samber/lo"

	"github.com/mindcarehq/mindcare/internal/pkg/router"
	"github.com/mindcarehq/mindcare/internal/wellness/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// UpdateMood records a mood check-in.
// @Summary Record mood
// @Description Stores a 1-5 mood value and returns the day's check-in summary. The local day follows the given or stored timezone.
// @Tags Wellness, Mood
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateMoodRequest true "Mood payload"
// @Success 200 {object} router.successResponse{data=MoodResponse} "Mood summary"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/mood [post]
func (h *HTTPEndpoint) UpdateMood(r *router.Request) (any, error) {
	var req UpdateMoodRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UpdateMood(r.Context(), usecase.UpdateMoodInput{Value: req.Value, Timezone: req.Timezone})
	if err != nil {
		return nil, err
	}

	return newMoodResponse(resp), nil
}

// Wallet returns the minute balance and recent transactions.
// @Summary Get wallet
// @Description Returns the minute balance and the most recent wallet transactions.
// @Tags Wellness, Wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=WalletResponse} "Wallet"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/wallet [get]
func (h *HTTPEndpoint) Wallet(r *router.Request) (any, error) {
	resp, err := h.uc.Wallet(r.Context())
	if err != nil {
		return nil, err
	}

	return WalletResponse{
		WalletMinutes: resp.Minutes,
		Transactions:  mapSlice(resp.Transactions, newWalletTransactionResponse),
	}, nil
}

// RechargeWallet honours the Idempotency-Key header. Replays answer with the
// stored result and meta.idempotent_replay set.
// @Summary Recharge wallet
// @Description Adds minutes to the wallet. Requests with the same Idempotency-Key are applied once.
// @Tags Wellness, Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body RechargeWalletRequest true "Recharge payload"
// @Success 200 {object} router.successResponse{data=WalletChangeResponse} "New balance"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Same key still in progress"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/wallet/recharge [post]
func (h *HTTPEndpoint) RechargeWallet(r *router.Request) (any, error) {
	var req RechargeWalletRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RechargeWallet(r.Context(), usecase.RechargeWalletInput{
		Minutes:        req.Minutes,
		IdempotencyKey: r.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		return nil, err
	}

	return newWalletChangeResponse(resp, "Wallet recharged"), nil
}

// UseWallet spends minutes on a chat or call service.
// @Summary Use wallet minutes
// @Description Deducts minutes for a chat or call service.
// @Tags Wellness, Wallet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UseWalletRequest true "Usage payload"
// @Success 200 {object} router.successResponse{data=WalletChangeResponse} "New balance"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 409 {object} router.errorResponse "Insufficient minutes"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/wallet/usage [post]
func (h *HTTPEndpoint) UseWallet(r *router.Request) (any, error) {
	var req UseWalletRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UseWallet(r.Context(), usecase.UseWalletInput{Service: req.Service, Minutes: req.Minutes})
	if err != nil {
		return nil, err
	}

	return newWalletChangeResponse(resp, "Wallet minutes used"), nil
}

// ListTasks lists the caller's tasks.
// @Summary List tasks
// @Description Returns the tasks of the authenticated user.
// @Tags Wellness, Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]TaskResponse} "Tasks"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/tasks [get]
func (h *HTTPEndpoint) ListTasks(r *router.Request) (any, error) {
	resp, err := h.uc.ListTasks(r.Context())
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newTaskResponse), nil
}

// CreateTask adds a task.
// @Summary Create task
// @Description Adds a task for the authenticated user.
// @Tags Wellness, Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "Task payload"
// @Success 201 {object} router.successResponse{data=TaskResponse} "Task created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/tasks [post]
func (h *HTTPEndpoint) CreateTask(r *router.Request) (any, error) {
	var req TaskRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateTask(r.Context(), usecase.CreateTaskInput{
		Title:       lo.FromPtr(req.Title),
		Category:    lo.FromPtr(req.Category),
		IsCompleted: lo.FromPtr(req.IsCompleted),
		Order:       lo.FromPtr(req.Order),
	})
	if err != nil {
		return nil, err
	}

	return TaskCreatedResponse{newTaskResponse(*resp)}, nil
}

// UpdateTask changes a task the caller owns.
// @Summary Update task
// @Description Updates the fields present in the body on a task the caller owns.
// @Tags Wellness, Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param request body TaskRequest true "Task payload"
// @Success 200 {object} router.successResponse{data=TaskResponse} "Updated task"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Task not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/tasks/{id} [patch]
func (h *HTTPEndpoint) UpdateTask(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req TaskRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UpdateTask(r.Context(), usecase.UpdateTaskInput{
		ID:          id,
		Title:       req.Title,
		Category:    req.Category,
		IsCompleted: req.IsCompleted,
		Order:       req.Order,
	})
	if err != nil {
		return nil, err
	}

	return newTaskResponse(*resp), nil
}

// DeleteTask removes a task the caller owns.
// @Summary Delete task
// @Description Deletes a task the caller owns.
// @Tags Wellness, Tasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid task ID"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Task not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/tasks/{id} [delete]
func (h *HTTPEndpoint) DeleteTask(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.DeleteTask(r.Context(), id)
}

// ListJournal lists journal entries, newest first.
// @Summary List journal
// @Description Returns the journal entries of the authenticated user, newest first.
// @Tags Wellness, Journal
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]JournalResponse} "Journal entries"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/journal [get]
func (h *HTTPEndpoint) ListJournal(r *router.Request) (any, error) {
	resp, err := h.uc.ListJournal(r.Context())
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newJournalResponse), nil
}

// CreateJournal saves a journal entry.
// @Summary Create journal entry
// @Description Saves a journal entry. The note is encrypted at rest.
// @Tags Wellness, Journal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JournalRequest true "Journal payload"
// @Success 201 {object} router.successResponse{data=JournalResponse} "Entry saved"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/journal [post]
func (h *HTTPEndpoint) CreateJournal(r *router.Request) (any, error) {
	var req JournalRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateJournal(r.Context(), usecase.CreateJournalInput{
		Title:     req.Title,
		Note:      req.Note,
		Mood:      req.Mood,
		EntryType: req.EntryType,
	})
	if err != nil {
		return nil, err
	}

	return JournalCreatedResponse{newJournalResponse(*resp)}, nil
}

// DeleteJournal removes a journal entry the caller owns.
// @Summary Delete journal entry
// @Description Deletes a journal entry the caller owns.
// @Tags Wellness, Journal
// @Produce json
// @Security BearerAuth
// @Param id path int true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid journal entry ID"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Journal entry not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/journal/{id} [delete]
func (h *HTTPEndpoint) DeleteJournal(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.DeleteJournal(r.Context(), id)
}

// ListGroups lists support groups with the caller's membership.
// @Summary List support groups
// @Description Returns every support group and whether the caller is a member.
// @Tags Wellness, Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]GroupResponse} "Support groups"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/groups [get]
func (h *HTTPEndpoint) ListGroups(r *router.Request) (any, error) {
	resp, err := h.uc.ListGroups(r.Context())
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newGroupResponse), nil
}

// JoinOrLeaveGroup joins or leaves a support group.
// @Summary Join or leave group
// @Description Joins or leaves the support group named by slug. Both actions are idempotent.
// @Tags Wellness, Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GroupMembershipRequest true "Membership payload"
// @Success 200 {object} router.successResponse{data=GroupResponse} "Group"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Support group not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/groups/membership [post]
func (h *HTTPEndpoint) JoinOrLeaveGroup(r *router.Request) (any, error) {
	var req GroupMembershipRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.JoinOrLeaveGroup(r.Context(), usecase.GroupMembershipInput{Slug: req.Slug, Action: req.Action})
	if err != nil {
		return nil, err
	}

	return newGroupResponse(*resp), nil
}

// ListSessions accepts ?upcoming=true to hide sessions that already started.
// @Summary List sessions
// @Description Returns the caller's booked sessions.
// @Tags Wellness, Sessions
// @Produce json
// @Security BearerAuth
// @Param upcoming query bool false "Only sessions that have not started"
// @Success 200 {object} router.successResponse{data=[]SessionResponse} "Sessions"
// @Failure 400 {object} router.errorResponse "Invalid query"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/sessions [get]
func (h *HTTPEndpoint) ListSessions(r *router.Request) (any, error) {
	upcoming, err := r.GetQueryBool("upcoming")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.ListSessions(r.Context(), usecase.ListSessionsInput{Upcoming: lo.FromPtr(upcoming)})
	if err != nil {
		return nil, err
	}

	return mapSlice(resp, newSessionResponse), nil
}

// CreateSession books a session.
// @Summary Book session
// @Description Books a therapy session in the future.
// @Tags Wellness, Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SessionRequest true "Session payload"
// @Success 201 {object} router.successResponse{data=SessionResponse} "Session booked"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/sessions [post]
func (h *HTTPEndpoint) CreateSession(r *router.Request) (any, error) {
	var req SessionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CreateSession(r.Context(), usecase.CreateSessionInput{
		Title:          lo.FromPtr(req.Title),
		SessionType:    lo.FromPtr(req.SessionType),
		StartTime:      lo.FromPtr(req.StartTime),
		CounsellorName: lo.FromPtr(req.CounsellorName),
		Notes:          lo.FromPtr(req.Notes),
		IsConfirmed:    lo.FromPtr(req.IsConfirmed),
	})
	if err != nil {
		return nil, err
	}

	return SessionCreatedResponse{newSessionResponse(*resp)}, nil
}

// QuickSession books a session starting now.
// @Summary Quick session
// @Description Books a session that starts immediately.
// @Tags Wellness, Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QuickSessionRequest true "Quick session payload"
// @Success 201 {object} router.successResponse{data=SessionResponse} "Session booked"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/sessions/quick [post]
func (h *HTTPEndpoint) QuickSession(r *router.Request) (any, error) {
	var req QuickSessionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.QuickSession(r.Context(), usecase.QuickSessionInput{
		Date:  req.Date,
		Time:  req.Time,
		Title: req.Title,
		Notes: req.Notes,
	})
	if err != nil {
		return nil, err
	}

	return SessionCreatedResponse{newSessionResponse(*resp)}, nil
}

// UpdateSession changes a session the caller booked.
// @Summary Update session
// @Description Updates the fields present in the body on a session the caller booked.
// @Tags Wellness, Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body SessionRequest true "Session payload"
// @Success 200 {object} router.successResponse{data=SessionResponse} "Updated session"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Session not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/sessions/{id} [patch]
func (h *HTTPEndpoint) UpdateSession(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req SessionRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UpdateSession(r.Context(), usecase.UpdateSessionInput{
		ID:             id,
		Title:          req.Title,
		SessionType:    req.SessionType,
		StartTime:      req.StartTime,
		CounsellorName: req.CounsellorName,
		Notes:          req.Notes,
		IsConfirmed:    req.IsConfirmed,
	})
	if err != nil {
		return nil, err
	}

	return newSessionResponse(*resp), nil
}

// DeleteSession cancels a session the caller booked.
// @Summary Cancel session
// @Description Deletes a session the caller booked.
// @Tags Wellness, Sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid session ID"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Session not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/wellness/sessions/{id} [delete]
func (h *HTTPEndpoint) DeleteSession(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	return nil, h.uc.DeleteSession(r.Context(), id)
}
