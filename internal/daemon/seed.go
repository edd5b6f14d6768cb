package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
)

// seed writes missing setting defaults, records the running version and
// creates the configured administrator when it does not exist yet.
func seed(cfg *config.Config, env *handler.Env) error {
	if err := env.Settings.Seed(context.Background(), env.Now(), cfg.Site.Version); err != nil {
		return errors.Wrap(err, "seed settings")
	}

	created, err := auth.NewLocalProvider(env.DB).EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		return errors.Wrap(err, "seed admin user")
	}

	if created {
		log.Info().Str("username", cfg.Admin.Username).Msg("created admin user")
	}

	return nil
}
