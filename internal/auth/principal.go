package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
)

// Locals keys set by the identity middleware.
const (
	LocalsCurrentUser   = "CurrentUser"
	LocalsTokenVerified = "TokenVerified"
)

// Principal is the identity behind one request.
type Principal struct {
	User          *models.User
	IP            string
	TokenVerified bool
}

// PrincipalFromCtx builds the principal from what the middleware stored.
func PrincipalFromCtx(c *fiber.Ctx) Principal {
	p := Principal{IP: c.IP()}

	if u, ok := c.Locals(LocalsCurrentUser).(models.User); ok && u.ID > 0 {
		p.User = &u
	}

	if v, ok := c.Locals(LocalsTokenVerified).(bool); ok {
		p.TokenVerified = v
	}

	return p
}

// UserID returns the signed-in user's id, or 0 for guests.
func (p Principal) UserID() uint64 {
	if p.User == nil {
		return 0
	}

	return p.User.ID
}

// Actor returns the engagement identity of the request.
func (p Principal) Actor() engagement.Actor {
	return engagement.Actor{UserID: p.UserID(), IP: p.IP}
}

// VerifiedToken reports whether the anti-forgery check passed.
func (p Principal) VerifiedToken() bool {
	return p.TokenVerified
}

// CanAdminister reports whether the principal may manage settings.
func (p Principal) CanAdminister() bool {
	return p.Can(PermSettingsManage)
}

// Can reports whether the principal holds permission.
func (p Principal) Can(permission string) bool {
	for _, perm := range PermissionsOf(p.User) {
		if perm == permission {
			return true
		}
	}

	return false
}
