package catalog

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindcarehq/mindcare/internal/catalog/inbound"
	"github.com/mindcarehq/mindcare/internal/catalog/outbound/db"
	"github.com/mindcarehq/mindcare/internal/catalog/usecase"
	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
	"github.com/mindcarehq/mindcare/internal/pkg/storage"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Storage    storage.Storage            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     db.NewDB(dep.DBConn, dep.Instrument),
		Storage:    dep.Storage,
		Validator:  dep.Validator,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
