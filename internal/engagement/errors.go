package engagement

import "github.com/pkg/errors"

var (
	// ErrUnauthenticated is returned for bookmark actions without a signed-in user.
	ErrUnauthenticated = errors.New("Please login to bookmark posts") //nolint:stylecheck
	// ErrInvalidPostID is returned for post ids that can not exist.
	ErrInvalidPostID = errors.New("Invalid post ID") //nolint:stylecheck
	// ErrPostNotFound is returned when the post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrNoActor is returned when a like carries neither user nor IP.
	ErrNoActor = errors.New("actor is empty")
)
