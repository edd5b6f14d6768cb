package shell

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

// Source fetches one page of the feed.
type Source interface {
	Fetch(ctx context.Context, q content.Query) (*content.Page, error)
}

// Engager sends like and bookmark toggles.
type Engager interface {
	ToggleLike(ctx context.Context, postID uint64) (engagement.LikeResult, error)
	ToggleBookmark(ctx context.Context, postID uint64) (engagement.BookmarkResult, error)
}

// RepositorySource reads the feed straight from the content repository, as
// seen by one actor. Featured posts are left out like in the public feed.
type RepositorySource struct {
	Repo  *content.Repository
	Actor engagement.Actor
}

// Fetch implements Source.
func (s RepositorySource) Fetch(ctx context.Context, q content.Query) (*content.Page, error) {
	q.ExcludeFeatured = true

	return s.Repo.List(ctx, q, s.Actor)
}

// ErrRemote is returned when the server answers with a failure envelope.
var ErrRemote = errors.New("remote error")

// RemoteSource talks to a running server over its JSON API.
type RemoteSource struct {
	BaseURL string
	Timeout time.Duration
	// CSRFToken and Cookie are sent with toggles; the server rejects
	// unsafe requests without them.
	CSRFToken string
	Cookie    string
}

// Fetch implements Source with GET /api/posts.
func (s RemoteSource) Fetch(ctx context.Context, q content.Query) (*content.Page, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PerPage))

	if q.Category != "" {
		v.Set("category", q.Category)
	}

	if q.Search != "" {
		v.Set("search", q.Search)
	}

	page := new(content.Page)
	if err := s.do(ctx, fiber.Get(s.url("/api/posts")+"?"+v.Encode()), page); err != nil {
		return nil, err
	}

	return page, nil
}

// ToggleLike implements Engager with POST /api/posts/:id/like.
func (s RemoteSource) ToggleLike(ctx context.Context, postID uint64) (engagement.LikeResult, error) {
	var res engagement.LikeResult
	err := s.do(ctx, s.post("/api/posts/"+strconv.FormatUint(postID, 10)+"/like"), &res)

	return res, err
}

// ToggleBookmark implements Engager with POST /api/posts/:id/bookmark.
func (s RemoteSource) ToggleBookmark(ctx context.Context, postID uint64) (engagement.BookmarkResult, error) {
	var res engagement.BookmarkResult
	err := s.do(ctx, s.post("/api/posts/"+strconv.FormatUint(postID, 10)+"/bookmark"), &res)

	return res, err
}

func (s RemoteSource) url(path string) string {
	return strings.TrimRight(s.BaseURL, "/") + path
}

func (s RemoteSource) post(path string) *fiber.Agent {
	a := fiber.Post(s.url(path))
	if s.CSRFToken != "" {
		a.Set("X-Csrf-Token", s.CSRFToken)
	}

	if s.Cookie != "" {
		a.Set(fiber.HeaderCookie, s.Cookie)
	}

	return a
}

// do runs the agent and decodes the envelope's data into out. The agent has
// no context support, so ctx only bounds the timeout.
func (s RemoteSource) do(ctx context.Context, a *fiber.Agent, out any) error {
	timeout := s.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout == 0 || left < timeout {
			timeout = left
		}
	}

	if timeout > 0 {
		a.Timeout(timeout)
	}

	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "request failed")
	}

	var env response.RawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errors.Wrapf(err, "unexpected response (status %d)", status)
	}

	if !env.Success {
		var msg response.Message

		_ = json.Unmarshal(env.Data, &msg)

		return errors.Wrapf(ErrRemote, "status %d: %s", status, msg.Message)
	}

	return errors.Wrap(json.Unmarshal(env.Data, out), "decode response")
}
