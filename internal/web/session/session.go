// Package session keeps signed-in user ids in fiber session storage.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
)

// CookieName carries the session id.
const CookieName = "session"

// ErrNoSession is returned for unknown or expired session ids.
var ErrNoSession = errors.New("session not found")

// Store is the global session store instance.
var Store *session.Store //nolint:gochecknoglobals

// Data represents the session data structure.
type Data struct {
	UserID uint64 `json:"user_id"`
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return Store.Storage.Set(sessionID, out, exp) //nolint:wrapcheck
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return errors.Wrap(err, "read session")
	}

	// storages return nil for missing keys
	if byteData == nil {
		return ErrNoSession
	}

	return json.Unmarshal(byteData, s) //nolint:wrapcheck
}

// Delete removes the session.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID) //nolint:wrapcheck
}

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage:    storage,
		CookieName: CookieName,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(b), nil
}
