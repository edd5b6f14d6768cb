// Package daemon wires configuration, storage and services into the
// running web service.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/db"
	"github.com/GoWebAPP/GoWebAPP/internal/db/dsn"
	"github.com/GoWebAPP/GoWebAPP/internal/housekeeping"
	"github.com/GoWebAPP/GoWebAPP/internal/web"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/session"
)

const (
	sessionTable = "sessions"
	sweepTimeout = 30 * time.Minute
	stopTimeout  = 10 * time.Second
)

// ErrConfigNil is returned by New without configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	env        *handler.Env
	webService *web.Service
	scheduler  *housekeeping.Scheduler
}

// Start runs the web service and the housekeeping schedule until a
// shutdown signal arrives.
func (d *Daemon) Start() error {
	if d.scheduler != nil {
		d.scheduler.Start()
	}

	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	if d.scheduler != nil {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		d.scheduler.Stop(ctx)
		cancel()
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	env := handler.NewEnv(cfg, conn)

	if err = seed(cfg, env); err != nil {
		return nil, err
	}

	// Initialize fiber session store
	session.Init(sessionStorage(cfg))

	webService, err := web.New(cfg, env)
	if err != nil {
		return nil, errors.Wrap(err, "init web service")
	}

	d := &Daemon{
		cfg:        cfg,
		env:        env,
		webService: webService,
	}

	if cfg.Housekeeping.Disabled {
		log.Info().Msg("housekeeping disabled")

		return d, nil
	}

	sweeper := housekeeping.NewSweeper(env.Analytics, cfg.Housekeeping.RetentionDays)

	if d.scheduler, err = housekeeping.NewScheduler(cfg.Housekeeping.Schedule, sweeper, sweepTimeout); err != nil {
		return nil, err
	}

	return d, nil
}

// sessionStorage keeps sessions next to the application data. SQLite
// deployments use the in-memory store.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         sessionTable,
		})
	default:
		log.Warn().Str("engine", cfg.DB.GormEngine).Msg("sessions are kept in memory and lost on restart")

		return nil
	}
}
