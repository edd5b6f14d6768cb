package shell

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Loader drives a Feed against a Source.
type Loader struct {
	Feed   *Feed
	Source Source
}

func (l *Loader) run(ctx context.Context, req Request) error {
	page, err := l.Source.Fetch(ctx, req.Query)
	if !l.Feed.Resolve(req, page, err) {
		log.Debug().Uint64("generation", req.Generation).Msg("dropping stale feed response")

		return nil
	}

	return err
}

// Initial performs the first load. It does nothing unless the feed is idle.
func (l *Loader) Initial(ctx context.Context) error {
	req, ok := l.Feed.InitialLoad()
	if !ok {
		return nil
	}

	return l.run(ctx, req)
}

// Search loads the results for query.
func (l *Loader) Search(ctx context.Context, query string) error {
	return l.run(ctx, l.Feed.Search(query))
}

// SelectCategory loads the posts of one category.
func (l *Loader) SelectCategory(ctx context.Context, slug string) error {
	return l.run(ctx, l.Feed.SelectCategory(slug))
}

// LoadMore appends the next page. It reports false when the feed rejected it.
func (l *Loader) LoadMore(ctx context.Context) (bool, error) {
	req, ok := l.Feed.LoadMore()
	if !ok {
		return false, nil
	}

	return true, l.run(ctx, req)
}

// Retry repeats the failed request.
func (l *Loader) Retry(ctx context.Context) error {
	req, ok := l.Feed.Retry()
	if !ok {
		return nil
	}

	return l.run(ctx, req)
}

// ToggleLike flips the like locally, sends it and reverts on failure.
func (l *Loader) ToggleLike(ctx context.Context, e Engager, postID uint64) error {
	flip, ok := l.Feed.FlipLike(postID)
	if !ok {
		return nil
	}

	res, err := e.ToggleLike(ctx, postID)
	if err != nil {
		l.Feed.SetLike(postID, flip.Revert())

		return err
	}

	l.Feed.SetLike(postID, flip.ConfirmLike(res))

	return nil
}

// ToggleBookmark flips the bookmark locally, sends it and reverts on failure.
func (l *Loader) ToggleBookmark(ctx context.Context, e Engager, postID uint64) error {
	flip, ok := l.Feed.FlipBookmark(postID)
	if !ok {
		return nil
	}

	res, err := e.ToggleBookmark(ctx, postID)
	if err != nil {
		l.Feed.SetBookmark(postID, flip.Revert())

		return err
	}

	l.Feed.SetBookmark(postID, flip.ConfirmBookmark(res))

	return nil
}

// DefaultDebounce is the delay between the last keystroke and the search.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer calls fn with the latest value once no new value arrived for delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(string)
	timer   *time.Timer
	seq     uint64
	armed   bool
	pending string
}

// NewDebouncer returns a debouncer calling fn.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn(value), cancelling any pending call.
func (d *Debouncer) Trigger(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.seq++
	d.armed = true
	d.pending = value

	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()

	if !d.armed || seq != d.seq {
		d.mu.Unlock()

		return
	}

	d.armed = false
	value := d.pending
	d.mu.Unlock()

	d.fn(value)
}

// Flush runs a pending call now, on the calling goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()

	if !d.armed {
		d.mu.Unlock()

		return
	}

	d.armed = false
	d.timer.Stop()
	value := d.pending
	d.mu.Unlock()

	d.fn(value)
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.armed = false

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
