// Package response writes the JSON envelope shared by every API endpoint:
// {"success": bool, "data": ...}. Failures carry {"message": "..."} as data.
package response

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// RawEnvelope is Envelope with undecoded data, for clients.
type RawEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Message is the data of a failed response.
type Message struct {
	Message string `json:"message"`
}

// OK writes a 200 success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope with status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Data: Message{Message: message}})
}

// WantsJSON reports whether the request expects an envelope instead of a page.
func WantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}

	if c.Get(fiber.HeaderXRequestedWith) == "XMLHttpRequest" {
		return true
	}

	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
