package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/auth"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler"
	"github.com/GoWebAPP/GoWebAPP/internal/web/handler/login"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
	"github.com/GoWebAPP/GoWebAPP/internal/web/session"
)

// New returns the identity middleware. It resolves the session cookie to an
// active user, reloaded from db so flag changes apply immediately, and puts
// it into fiber.Locals. Guests pass through; admin pages send them to login.
func New(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		originalURL := strings.ToLower(c.OriginalURL())
		if strings.HasPrefix(originalURL, "/static") {
			return c.Next()
		}

		user, ok := currentUser(c, db)
		if ok {
			c.Locals(auth.LocalsCurrentUser, user)
		}

		if ok && IsLoginPage(c) {
			return c.Redirect(handler.AdminPath + "/settings")
		}

		if !ok && IsAdminPage(c) && !response.WantsJSON(c) {
			return c.Redirect(login.Path)
		}

		return c.Next()
	}
}

func currentUser(c *fiber.Ctx, db *gorm.DB) (models.User, bool) {
	var (
		user     models.User
		sessData session.Data
	)

	if err := sessData.Read(c.Cookies(session.CookieName)); err != nil || sessData.UserID == 0 {
		return user, false
	}

	if err := db.WithContext(c.UserContext()).Where("id = ?", sessData.UserID).First(&user).Error; err != nil {
		log.Debug().Err(err).Uint64("user_id", sessData.UserID).Msg("session user not found")

		return user, false
	}

	return user, user.Active
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, login.Path)
}

// IsAdminPage checks if the current request is for an administration page.
func IsAdminPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, handler.AdminPath)
}
