package usecase

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/mindcarehq/mindcare/internal/notification/entity"
	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/mail"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("mail").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html"))

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoMail  repoMail
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoMail   repoMail
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoMail:  dep.RepoMail,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

// mailData carries the fields every template reads plus the per-mail ones.
type mailData struct {
	Subject      string
	ProductName  string
	SupportEmail string
	Year         string

	Code             string
	ExpiresAt        string
	ExpiresInMinutes int
	Username         string
}

func (s *Usecase) baseData(t entity.Template) mailData {
	support := s.cfg.GetString("modules.notification.support_email")
	if support == "" {
		support = "support@mindcare.app"
	}

	return mailData{
		Subject:      t.Subject(),
		ProductName:  "MindCare",
		SupportEmail: support,
		Year:         s.clock.Now().Format("2006"),
	}
}

// location is the app timezone used to print times in mail bodies.
func (s *Usecase) location() *time.Location {
	if loc, err := time.LoadLocation(s.cfg.GetString("app.timezone")); err == nil {
		return loc
	}
	return time.UTC
}

func (s *Usecase) render(t entity.Template, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, t.String(), data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Usecase) send(ctx context.Context, to string, t entity.Template, data mailData) error {
	body, err := s.render(t, data)
	if err != nil {
		return err
	}

	return s.repoMail.Send(ctx, mail.Message{
		To:       []string{to},
		Subject:  t.Subject(),
		HTMLBody: body,
	})
}
