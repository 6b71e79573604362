package inbound

import (
	"context"

	"github.com/mindcarehq/mindcare/internal/pkg/router"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
	"github.com/mindcarehq/mindcare/internal/wellness/usecase"
)

type uc interface {
	UpdateMood(ctx context.Context, in usecase.UpdateMoodInput) (*entity.MoodState, error)

	Wallet(ctx context.Context) (*usecase.WalletOutput, error)
	RechargeWallet(ctx context.Context, in usecase.RechargeWalletInput) (*usecase.WalletChangeOutput, error)
	UseWallet(ctx context.Context, in usecase.UseWalletInput) (*usecase.WalletChangeOutput, error)

	ListTasks(ctx context.Context) ([]entity.Task, error)
	CreateTask(ctx context.Context, in usecase.CreateTaskInput) (*entity.Task, error)
	UpdateTask(ctx context.Context, in usecase.UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	ListJournal(ctx context.Context) ([]usecase.JournalOutput, error)
	CreateJournal(ctx context.Context, in usecase.CreateJournalInput) (*usecase.JournalOutput, error)
	DeleteJournal(ctx context.Context, id int64) error

	ListGroups(ctx context.Context) ([]entity.SupportGroup, error)
	JoinOrLeaveGroup(ctx context.Context, in usecase.GroupMembershipInput) (*entity.SupportGroup, error)

	ListSessions(ctx context.Context, in usecase.ListSessionsInput) ([]entity.Session, error)
	CreateSession(ctx context.Context, in usecase.CreateSessionInput) (*entity.Session, error)
	UpdateSession(ctx context.Context, in usecase.UpdateSessionInput) (*entity.Session, error)
	DeleteSession(ctx context.Context, id int64) error
	QuickSession(ctx context.Context, in usecase.QuickSessionInput) (*entity.Session, error)
}

// RegisterHTTPEndpoint mounts the wellness routes. All of them need an
// authenticated caller.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/wellness/mood", end.UpdateMood)

	r.GET("/api/v1/wellness/wallet", end.Wallet)
	r.POST("/api/v1/wellness/wallet/recharge", end.RechargeWallet)
	r.POST("/api/v1/wellness/wallet/usage", end.UseWallet)

	r.GET("/api/v1/wellness/tasks", end.ListTasks)
	r.POST("/api/v1/wellness/tasks", end.CreateTask)
	r.PATCH("/api/v1/wellness/tasks/:id", end.UpdateTask)
	r.DELETE("/api/v1/wellness/tasks/:id", end.DeleteTask)

	r.GET("/api/v1/wellness/journal", end.ListJournal)
	r.POST("/api/v1/wellness/journal", end.CreateJournal)
	r.DELETE("/api/v1/wellness/journal/:id", end.DeleteJournal)

	r.GET("/api/v1/wellness/groups", end.ListGroups)
	r.POST("/api/v1/wellness/groups/membership", end.JoinOrLeaveGroup)

	r.GET("/api/v1/wellness/sessions", end.ListSessions)
	r.POST("/api/v1/wellness/sessions", end.CreateSession)
	r.POST("/api/v1/wellness/sessions/quick", end.QuickSession)
	r.PATCH("/api/v1/wellness/sessions/:id", end.UpdateSession)
	r.DELETE("/api/v1/wellness/sessions/:id", end.DeleteSession)
}
