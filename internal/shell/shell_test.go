package shell

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

// memSource serves n posts, newest first, optionally failing.
type memSource struct {
	mu    sync.Mutex
	n     int
	fail  error
	calls []content.Query
}

func (m *memSource) Fetch(_ context.Context, q content.Query) (*content.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, q)
	if m.fail != nil {
		return nil, m.fail
	}

	start := (q.Page - 1) * q.PerPage
	end := min(start+q.PerPage, m.n)

	page := &content.Page{Page: q.Page, PerPage: q.PerPage, Total: int64(m.n)}
	for i := start; i < end; i++ {
		page.Posts = append(page.Posts, content.Summary{ID: uint64(i + 1), Likes: 2})
	}

	page.HasMore = q.Page*q.PerPage < m.n

	return page, nil
}

func TestFeedPagination(t *testing.T) {
	src := &memSource{n: 25}
	l := &Loader{Feed: NewFeed(10), Source: src}
	ctx := context.Background()

	require.NoError(t, l.Initial(ctx))

	snap := l.Feed.Snapshot()
	assert.Equal(t, Loaded, snap.State)
	assert.Len(t, snap.Posts, 10)
	assert.True(t, snap.HasMore)

	wantLen := []int{20, 25}
	wantMore := []bool{true, false}

	for i := range wantLen {
		ok, err := l.LoadMore(ctx)
		require.NoError(t, err)
		require.True(t, ok)

		snap = l.Feed.Snapshot()
		assert.Len(t, snap.Posts, wantLen[i])
		assert.Equal(t, wantMore[i], snap.HasMore)
	}

	ok, err := l.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no more pages")
	assert.Len(t, src.calls, 3)
}

func TestFeedTransitions(t *testing.T) {
	f := NewFeed(10)

	_, ok := f.LoadMore()
	assert.False(t, ok, "load more from idle")

	_, ok = f.Retry()
	assert.False(t, ok, "retry without failure")

	req, ok := f.InitialLoad()
	require.True(t, ok)
	assert.Equal(t, Loading, f.Snapshot().State)
	assert.Equal(t, 1, req.Query.Page)

	_, ok = f.InitialLoad()
	assert.False(t, ok, "initial load only once")

	require.True(t, f.Resolve(req, &content.Page{Posts: []content.Summary{{ID: 1}}, HasMore: true}, nil))

	more, ok := f.LoadMore()
	require.True(t, ok)
	assert.Equal(t, LoadingMore, f.Snapshot().State)

	_, ok = f.LoadMore()
	assert.False(t, ok, "reentrant load more is rejected")

	boom := errors.New("offline")
	require.True(t, f.Resolve(more, nil, boom))

	snap := f.Snapshot()
	assert.Equal(t, Failed, snap.State)
	assert.Equal(t, boom, snap.Err)
	assert.Len(t, snap.Posts, 1, "failed load keeps the list")

	retry, ok := f.Retry()
	require.True(t, ok)
	assert.True(t, retry.Append)
	assert.Equal(t, 2, retry.Query.Page)
	assert.Equal(t, LoadingMore, f.Snapshot().State)

	require.True(t, f.Resolve(retry, &content.Page{Posts: []content.Summary{{ID: 2}}}, nil))
	assert.Len(t, f.Snapshot().Posts, 2)
}

func TestFeedFiltersAreExclusive(t *testing.T) {
	f := NewFeed(5)

	req := f.Search("go")
	assert.Equal(t, content.Query{Page: 1, PerPage: 5, Search: "go"}, req.Query)

	req = f.SelectCategory("tech")
	assert.Equal(t, content.Query{Page: 1, PerPage: 5, Category: "tech"}, req.Query)
	assert.Equal(t, Filter{Category: "tech"}, f.Snapshot().Filter)

	req = f.Search("rust")
	assert.Equal(t, Filter{Search: "rust"}, f.Snapshot().Filter)
	assert.Empty(t, req.Query.Category)
}

func TestFeedDropsStaleResponses(t *testing.T) {
	f := NewFeed(10)

	first := f.Search("a")
	second := f.Search("ab")

	assert.False(t, f.Resolve(first, &content.Page{Posts: []content.Summary{{ID: 1}}}, nil))
	assert.Equal(t, Loading, f.Snapshot().State)
	assert.Empty(t, f.Snapshot().Posts)

	assert.True(t, f.Resolve(second, &content.Page{Posts: []content.Summary{{ID: 2}}}, nil))
	assert.Equal(t, uint64(2), f.Snapshot().Posts[0].ID)
}

func TestFilterChangeReplacesList(t *testing.T) {
	src := &memSource{n: 25}
	l := &Loader{Feed: NewFeed(10), Source: src}
	ctx := context.Background()

	require.NoError(t, l.Initial(ctx))
	_, err := l.LoadMore(ctx)
	require.NoError(t, err)
	require.Len(t, l.Feed.Snapshot().Posts, 20)

	require.NoError(t, l.SelectCategory(ctx, "news"))
	assert.Len(t, l.Feed.Snapshot().Posts, 10)
	assert.Equal(t, "news", src.calls[len(src.calls)-1].Category)
}

func TestFlipToggle(t *testing.T) {
	testCases := []struct {
		name string
		in   Toggle
		want Toggle
	}{
		{name: "like", in: Toggle{On: false, Count: 4}, want: Toggle{On: true, Count: 5}},
		{name: "unlike", in: Toggle{On: true, Count: 5}, want: Toggle{On: false, Count: 4}},
		{name: "never negative", in: Toggle{On: true, Count: 0}, want: Toggle{On: false, Count: 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			flip := FlipToggle(tc.in)
			assert.Equal(t, tc.want, flip.After)
			assert.Equal(t, tc.in, flip.Revert())
		})
	}

	start := Toggle{On: false, Count: 7}
	assert.Equal(t, start, FlipToggle(FlipToggle(start).After).After, "flipping twice restores the original")
}

type fakeEngager struct {
	err error
}

func (f fakeEngager) ToggleLike(context.Context, uint64) (engagement.LikeResult, error) {
	if f.err != nil {
		return engagement.LikeResult{}, f.err
	}

	return engagement.LikeResult{Liked: true, Count: 10}, nil
}

func (f fakeEngager) ToggleBookmark(context.Context, uint64) (engagement.BookmarkResult, error) {
	if f.err != nil {
		return engagement.BookmarkResult{}, f.err
	}

	return engagement.BookmarkResult{Bookmarked: true, Message: engagement.MessageBookmarked}, nil
}

func TestOptimisticToggles(t *testing.T) {
	l := &Loader{Feed: NewFeed(10), Source: &memSource{n: 3}}
	ctx := context.Background()
	require.NoError(t, l.Initial(ctx))

	require.Error(t, l.ToggleLike(ctx, fakeEngager{err: errors.New("500")}, 2))

	post := l.Feed.Snapshot().Posts[1]
	assert.False(t, post.IsLiked, "failed like is reverted")
	assert.Equal(t, int64(2), post.Likes)

	require.NoError(t, l.ToggleLike(ctx, fakeEngager{}, 2))

	post = l.Feed.Snapshot().Posts[1]
	assert.True(t, post.IsLiked)
	assert.Equal(t, int64(10), post.Likes, "server count wins")

	require.Error(t, l.ToggleBookmark(ctx, fakeEngager{err: errors.New("401")}, 1))
	assert.False(t, l.Feed.Snapshot().Posts[0].IsBookmarked)

	require.NoError(t, l.ToggleBookmark(ctx, fakeEngager{}, 1))
	assert.True(t, l.Feed.Snapshot().Posts[0].IsBookmarked)

	require.NoError(t, l.ToggleLike(ctx, fakeEngager{}, 99), "unknown posts are ignored")
}

func TestDebouncer(t *testing.T) {
	got := make(chan string, 4)
	d := NewDebouncer(20*time.Millisecond, func(v string) { got <- v })

	d.Trigger("g")
	d.Trigger("go")
	d.Trigger("gol")

	select {
	case v := <-got:
		assert.Equal(t, "gol", v)
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}

	select {
	case v := <-got:
		t.Fatalf("unexpected extra call %q", v)
	case <-time.After(60 * time.Millisecond):
	}

	d.Trigger("x")
	d.Stop()

	select {
	case v := <-got:
		t.Fatalf("stopped debouncer fired %q", v)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncerFlush(t *testing.T) {
	var got []string

	d := NewDebouncer(time.Hour, func(v string) { got = append(got, v) })

	d.Flush()
	assert.Empty(t, got, "nothing pending")

	d.Trigger("w")
	d.Trigger("web")
	d.Flush()
	assert.Equal(t, []string{"web"}, got)

	d.Flush()
	assert.Equal(t, []string{"web"}, got, "a flushed value runs once")

	d.Trigger("x")
	d.Stop()
	d.Flush()
	assert.Equal(t, []string{"web"}, got, "stopped values are dropped")
}

func TestRemoteSource(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/api/posts", func(c *fiber.Ctx) error {
		q := content.Query{}
		if err := c.QueryParser(&q); err != nil {
			return err
		}

		return response.OK(c, content.Page{
			Posts:   []content.Summary{{ID: 7, Title: q.Search}},
			Page:    q.Page,
			HasMore: q.Page < 2,
		})
	})
	app.Post("/api/posts/:id/like", func(c *fiber.Ctx) error {
		return response.OK(c, engagement.LikeResult{Liked: true, Count: 3})
	})
	app.Post("/api/posts/:id/bookmark", func(c *fiber.Ctx) error {
		return response.Fail(c, fiber.StatusUnauthorized, engagement.ErrUnauthenticated.Error())
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() { _ = app.Shutdown() })

	src := RemoteSource{BaseURL: "http://" + ln.Addr().String(), Timeout: 2 * time.Second}
	ctx := context.Background()

	page, err := src.Fetch(ctx, content.Query{Page: 1, PerPage: 10, Search: "hello world"})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "hello world", page.Posts[0].Title)
	assert.True(t, page.HasMore)

	like, err := src.ToggleLike(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, engagement.LikeResult{Liked: true, Count: 3}, like)

	_, err = src.ToggleBookmark(ctx, 7)
	require.ErrorIs(t, err, ErrRemote)
	assert.Contains(t, err.Error(), "Please login to bookmark posts")
}
