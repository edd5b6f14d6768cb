// Package shell models the app shell's content feed: a state machine over
// one list of post summaries with search and category filters, append-only
// pagination and optimistic like and bookmark toggles.
//
// Feed is a pure state holder. Every transition that needs data returns a
// Request; the caller fetches it and hands the outcome back to Resolve.
// Responses for a request that is no longer current are dropped.
package shell

import (
	"sync"

	"github.com/GoWebAPP/GoWebAPP/internal/content"
)

// State of the feed.
type State int

// Feed states.
const (
	Idle State = iota
	Loading
	Loaded
	LoadingMore
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadingMore:
		return "loading-more"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Filter is the active filter. At most one field is set.
type Filter struct {
	Category string
	Search   string
}

// Request is one fetch the feed is waiting for.
type Request struct {
	Generation uint64
	Query      content.Query
	Append     bool
}

// Snapshot is a copy of the feed state.
type Snapshot struct {
	State   State
	Filter  Filter
	Page    int
	Posts   []content.Summary
	HasMore bool
	Err     error
}

// Feed holds the feed state. It is safe for concurrent use.
type Feed struct {
	mu         sync.Mutex
	perPage    int
	state      State
	filter     Filter
	page       int
	posts      []content.Summary
	hasMore    bool
	err        error
	generation uint64
	inFlight   bool
	last       Request
}

// NewFeed returns an idle feed fetching perPage posts per request.
func NewFeed(perPage int) *Feed {
	if perPage < 1 {
		perPage = content.DefaultPerPage
	}

	return &Feed{perPage: perPage}
}

// Snapshot returns a copy of the current state.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		State:   f.state,
		Filter:  f.filter,
		Page:    f.page,
		Posts:   append([]content.Summary(nil), f.posts...),
		HasMore: f.hasMore,
		Err:     f.err,
	}
}

// InitialLoad starts the first load. It is valid from Idle only.
func (f *Feed) InitialLoad() (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Idle {
		return Request{}, false
	}

	return f.restart(), true
}

// Search replaces the feed with results for query and clears the category.
// It supersedes any request in flight.
func (f *Feed) Search(query string) Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filter = Filter{Search: query}

	return f.restart()
}

// SelectCategory replaces the feed with the category and clears the search.
// It supersedes any request in flight.
func (f *Feed) SelectCategory(slug string) Request {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filter = Filter{Category: slug}

	return f.restart()
}

// LoadMore requests the next page. It is rejected unless the feed is Loaded
// with more pages and nothing is in flight.
func (f *Feed) LoadMore() (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Loaded || !f.hasMore || f.inFlight {
		return Request{}, false
	}

	f.state = LoadingMore
	f.err = nil

	return f.issue(f.page+1, true), true
}

// Retry repeats the request that failed. It is valid from Failed only.
func (f *Feed) Retry() (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Failed {
		return Request{}, false
	}

	f.err = nil
	if f.last.Append {
		f.state = LoadingMore
	} else {
		f.state = Loading
	}

	return f.issue(f.last.Query.Page, f.last.Append), true
}

// Resolve applies the outcome of req. It reports false and changes nothing
// when req has been superseded.
func (f *Feed) Resolve(req Request, page *content.Page, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if req.Generation != f.generation {
		return false
	}

	f.inFlight = false

	if err != nil {
		f.state = Failed
		f.err = err

		return true
	}

	if req.Append {
		f.posts = append(f.posts, page.Posts...)
	} else {
		f.posts = append([]content.Summary(nil), page.Posts...)
	}

	f.page = req.Query.Page
	f.hasMore = page.HasMore
	f.state = Loaded
	f.err = nil

	return true
}

// restart clears the list and issues a request for the first page.
func (f *Feed) restart() Request {
	f.posts = nil
	f.page = 0
	f.hasMore = false
	f.err = nil
	f.state = Loading

	return f.issue(1, false)
}

func (f *Feed) issue(page int, appendPosts bool) Request {
	f.generation++
	f.inFlight = true
	f.last = Request{
		Generation: f.generation,
		Query: content.Query{
			Page:     page,
			PerPage:  f.perPage,
			Category: f.filter.Category,
			Search:   f.filter.Search,
		},
		Append: appendPosts,
	}

	return f.last
}
