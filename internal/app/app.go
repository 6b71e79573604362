package app

import (
	"context"
	"net/http"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mindcarehq/mindcare/internal/pkg/clock"
	"github.com/mindcarehq/mindcare/internal/pkg/config"
	"github.com/mindcarehq/mindcare/internal/pkg/goroutine"
	"github.com/mindcarehq/mindcare/internal/pkg/hash"
	"github.com/mindcarehq/mindcare/internal/pkg/idempotency"
	"github.com/mindcarehq/mindcare/internal/pkg/instrument"
	"github.com/mindcarehq/mindcare/internal/pkg/jwt"
	"github.com/mindcarehq/mindcare/internal/pkg/mail"
	"github.com/mindcarehq/mindcare/internal/pkg/messaging"
	"github.com/mindcarehq/mindcare/internal/pkg/otp"
	"github.com/mindcarehq/mindcare/internal/pkg/router"
	"github.com/mindcarehq/mindcare/internal/pkg/seal"
	"github.com/mindcarehq/mindcare/internal/pkg/storage"
	"github.com/mindcarehq/mindcare/internal/pkg/uid"
	"github.com/mindcarehq/mindcare/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	token     uid.StringID
	uuid      uid.StringID
	code      otp.Generator
	jwt       jwt.JWT
	sealer    seal.Sealer

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage
	casbin    *casbin.Enforcer

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initCasbin()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
