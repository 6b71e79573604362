package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goerror"
	"github.com/mindcarehq/mindcare/internal/pkg/idempotency"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/seal"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
	"github.com/mindcarehq/mindcare/internal/wellness/entity"
	"go.opentelemetry.io/otel/trace"
)

const recentTransactions = 20

var errAuthRequired = goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)

type repoDB interface {
	GetTimezone(ctx context.Context, userID int64) (string, error)
	GetMoodState(ctx context.Context, userID int64) (*entity.MoodState, error)
	// SaveMood stores the check-in and returns the day's count as stored.
	SaveMood(ctx context.Context, state entity.MoodState, log entity.MoodLog) (int, error)

	GetWalletMinutes(ctx context.Context, userID int64) (int, error)
	RechargeWallet(ctx context.Context, tx entity.WalletTransaction) (int, error)
	SpendWallet(ctx context.Context, tx entity.WalletTransaction) (int, error)
	ListWalletTransactions(ctx context.Context, userID int64, limit int) ([]entity.WalletTransaction, error)

	ListTasks(ctx context.Context, userID int64) ([]entity.Task, error)
	CreateTask(ctx context.Context, t entity.Task) error
	GetTask(ctx context.Context, userID, id int64) (*entity.Task, error)
	UpdateTask(ctx context.Context, t entity.Task) error
	DeleteTask(ctx context.Context, userID, id int64) error

	ListJournal(ctx context.Context, userID int64) ([]entity.JournalRecord, error)
	CreateJournal(ctx context.Context, rec entity.JournalRecord) error
	DeleteJournal(ctx context.Context, userID, id int64) error

	ListGroups(ctx context.Context, userID int64) ([]entity.SupportGroup, error)
	GetGroupBySlug(ctx context.Context, slug string) (*entity.SupportGroup, error)
	JoinGroup(ctx context.Context, groupID, userID int64, at time.Time) error
	LeaveGroup(ctx context.Context, groupID, userID int64) error

	ListSessions(ctx context.Context, userID int64, from *time.Time) ([]entity.Session, error)
	CreateSession(ctx context.Context, s entity.Session) error
	GetSession(ctx context.Context, userID, id int64) (*entity.Session, error)
	UpdateSession(ctx context.Context, s entity.Session) error
	DeleteSession(ctx context.Context, userID, id int64) error
}

type Usecase struct {
	repoDB      repoDB
	idempotency idempotency.Idempotency
	sealer      seal.Sealer
	validator   validator.Validator
	cfg         config.Config
	uid         uid.NumberID
	clock       clock.Clocker
	ins         instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	Idempotency idempotency.Idempotency
	Sealer      seal.Sealer
	Validator   validator.Validator
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:      dep.RepoDB,
		idempotency: dep.Idempotency,
		sealer:      dep.Sealer,
		validator:   dep.Validator,
		cfg:         dep.Config,
		uid:         dep.UID,
		clock:       dep.Clock,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("wellness.usecase").Start(ctx, name)
}

func authUserID(ctx context.Context) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.UserID == 0 {
		return 0, errAuthRequired
	}
	return clm.UserID, nil
}

// location resolves an IANA name, reporting false for blank or unknown names.
func location(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// appLocation is the zone used to render display dates.
func (s *Usecase) appLocation() *time.Location {
	if loc, ok := location(s.cfg.GetString("app.timezone")); ok {
		return loc
	}
	return time.UTC
}
