package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/db/dbtest"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

func TestPermissionsOf(t *testing.T) {
	testCases := []struct {
		name string
		user *models.User
		want []string
	}{
		{name: "guest", user: nil, want: []string{}},
		{name: "inactive admin", user: &models.User{Admin: true}, want: []string{}},
		{name: "reader", user: &models.User{Active: true}, want: []string{PermEngagementBookmark}},
		{name: "admin", user: &models.User{Active: true, Admin: true}, want: AllPermissions()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PermissionsOf(tc.user))
		})
	}
}

func TestLocalProvider(t *testing.T) {
	db := dbtest.Open(t)
	p := NewLocalProvider(db)

	created, err := p.EnsureAdmin("admin", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = p.EnsureAdmin("admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := p.Authenticate("admin", "secret")
	require.NoError(t, err)
	assert.True(t, u.Admin)

	_, err = p.Authenticate("admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = p.Authenticate("nobody", "secret")
	require.ErrorIs(t, err, ErrUserNotFound)

	reader, err := p.CreateUser("reader", "r@example.com", "pw", "Reader", false)
	require.NoError(t, err)

	_, err = p.CreateUser("reader2", "r@example.com", "pw", "", false)
	require.ErrorIs(t, err, ErrUserNameOrEmailExists)

	require.NoError(t, p.ChangePassword(reader.ID, "pw", "pw2"))
	require.ErrorIs(t, p.ChangePassword(reader.ID, "pw", "pw3"), ErrInvalidOldPassword)

	require.NoError(t, p.SetActive(reader.ID, false))
	_, err = p.Authenticate("reader", "pw2")
	require.ErrorIs(t, err, ErrUserAccountDisabled)

	svc := NewService(db)

	has, err := svc.HasPermission(u.ID, PermSettingsManage)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasPermission(reader.ID, PermEngagementBookmark)
	require.NoError(t, err)
	assert.False(t, has, "inactive users have no permissions")

	has, err = svc.HasAnyPermission(999, AllPermissions())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRequirePermission(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)

	admin := models.User{Username: "a", Password: "x", Active: true, Admin: true}
	reader := models.User{Username: "r", Password: "x", Active: true}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&reader).Error)

	testCases := []struct {
		name string
		user *models.User
		path string
		want int
	}{
		{name: "guest page", user: nil, path: "/admin/x", want: fiber.StatusUnauthorized},
		{name: "reader api", user: &reader, path: "/api/x", want: fiber.StatusForbidden},
		{name: "admin", user: &admin, path: "/admin/x", want: fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				if tc.user != nil {
					c.Locals(LocalsCurrentUser, *tc.user)
				}

				return c.Next()
			})
			app.Get("/*", RequirePermission(svc, PermSettingsManage), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestPrincipal(t *testing.T) {
	app := fiber.New()
	app.Use(MarkTokenVerified())

	var got Principal

	handler := func(c *fiber.Ctx) error {
		got = PrincipalFromCtx(c)

		return nil
	}
	app.Get("/", handler)
	app.Post("/", func(c *fiber.Ctx) error {
		c.Locals(LocalsCurrentUser, models.User{ID: 4, Active: true, Admin: true})

		return handler(c)
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.False(t, got.VerifiedToken())
	assert.False(t, got.CanAdminister())
	assert.Equal(t, uint64(0), got.UserID())
	assert.NotEmpty(t, got.Actor().ID(), "guests are keyed by IP")

	_, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.True(t, got.VerifiedToken())
	assert.True(t, got.CanAdminister())
	assert.Equal(t, "4", got.Actor().ID())
}

func TestRequireAnyPermission(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)

	reader := models.User{Username: "r", Password: "x", Active: true}
	require.NoError(t, db.Create(&reader).Error)

	testCases := []struct {
		name        string
		permissions []string
		want        int
	}{
		{name: "one granted", permissions: []string{PermSettingsManage, PermEngagementBookmark}, want: fiber.StatusOK},
		{name: "none granted", permissions: []string{PermSettingsManage, PermAnalyticsView}, want: fiber.StatusForbidden},
		{name: "empty list", permissions: nil, want: fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				c.Locals(LocalsCurrentUser, reader)

				return c.Next()
			})
			app.Get("/", RequireAnyPermission(svc, tc.permissions...), func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestLocalProviderUpdates(t *testing.T) {
	p := NewLocalProvider(dbtest.Open(t))

	user, err := p.CreateUser("reader", "", "pw", "", false)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		update      func(id uint64) error
		id          uint64
		expectedErr error
	}{
		{name: "reset unknown", update: func(id uint64) error { return p.ResetPassword(id, "x") }, id: 999, expectedErr: ErrUserNotFound},
		{name: "disable unknown", update: func(id uint64) error { return p.SetActive(id, false) }, id: 999, expectedErr: ErrUserNotFound},
		{name: "change unknown", update: func(id uint64) error { return p.ChangePassword(id, "pw", "x") }, id: 999, expectedErr: ErrUserNotFound},
		{name: "reset", update: func(id uint64) error { return p.ResetPassword(id, "new") }, id: user.ID},
		{name: "enable", update: func(id uint64) error { return p.SetActive(id, true) }, id: user.ID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.update(tc.id)
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
		})
	}

	_, err = p.Authenticate("reader", "new")
	require.NoError(t, err)
}

func TestGetUserByUsername(t *testing.T) {
	p := NewLocalProvider(dbtest.Open(t))

	created, err := p.CreateUser("reader", "", "pw", "Reader", false)
	require.NoError(t, err)

	u, err := p.GetUserByUsername("reader")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = p.GetUserByUsername("nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}
