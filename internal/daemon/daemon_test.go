package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/db/dbtest"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/settings"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/handlertest"
)

func TestSeed(t *testing.T) {
	cfg := handlertest.Config()
	cfg.Admin = config.Admin{Username: "root", Password: "s3cret"}

	env := handler.NewEnv(cfg, dbtest.Open(t))

	// a second run leaves users and settings alone
	for range 2 {
		require.NoError(t, seed(cfg, env))
	}

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	user, err := auth.NewLocalProvider(env.DB).Authenticate("root", "s3cret")
	require.NoError(t, err)
	assert.True(t, user.Admin)

	version, err := env.Settings.Get(settings.KeyVersion)
	require.NoError(t, err)
	assert.Equal(t, cfg.Site.Version, version)
}

func TestSeedWithoutAdmin(t *testing.T) {
	cfg := handlertest.Config()
	env := handler.NewEnv(cfg, dbtest.Open(t))

	require.NoError(t, seed(cfg, env))

	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, ErrConfigNil)

	testCases := []struct {
		name          string
		disabled      bool
		expectedSched bool
	}{
		{name: "with housekeeping", expectedSched: true},
		{name: "housekeeping disabled", disabled: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := handlertest.Config()
			cfg.Housekeeping.Disabled = tc.disabled

			d, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedSched, d.scheduler != nil)
			assert.True(t, d.webService.Alive())
		})
	}
}

func TestSessionStorageSQLite(t *testing.T) {
	assert.Nil(t, sessionStorage(handlertest.Config()))
}
