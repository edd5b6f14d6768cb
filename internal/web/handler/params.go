package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
)

// PostID reads the ":id" route parameter. Non-numeric and non-positive
// values yield engagement.ErrInvalidPostID.
func PostID(c *fiber.Ctx) (uint64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, engagement.ErrInvalidPostID
	}

	return uint64(id), nil
}

// Limit reads a positive query integer capped at maxValue.
func Limit(c *fiber.Ctx, key string, def, maxValue int) int {
	n := c.QueryInt(key, def)
	if n < 1 {
		return def
	}

	return min(n, maxValue)
}
