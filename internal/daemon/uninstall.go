package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
)

// Removal reports what Uninstall deleted.
type Removal struct {
	engagement.Purged
	Events int64
}

// Uninstall removes everything the app stored next to the host content:
// all options including the uploaded icon, like and bookmark sets, view
// counters, featured flags and analytics events. Posts, categories and
// users are left alone.
func Uninstall(ctx context.Context, env *handler.Env, caller settings.Caller) (Removal, error) {
	if !env.Valid() {
		return Removal{}, errors.New(handler.ErrNilACDFatalLogMsg)
	}

	if err := env.Settings.Purge(caller); err != nil {
		return Removal{}, err
	}

	if err := env.Icons.Remove(); err != nil {
		return Removal{}, err
	}

	purged, err := env.Tracker.Purge(ctx)
	if err != nil {
		return Removal{}, err
	}

	events, err := env.Analytics.Purge(ctx)
	if err != nil {
		return Removal{}, err
	}

	log.Info().Int64("events", events).Msg("app data uninstalled")

	return Removal{Purged: purged, Events: events}, nil
}
