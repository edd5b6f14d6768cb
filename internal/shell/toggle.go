package shell

import "github.com/GoWebAPP/GoWebAPP/internal/engagement"

// Toggle is a local on/off state with its counter.
type Toggle struct {
	On    bool
	Count int64
}

// Flip is an optimistic change that has not been confirmed yet.
type Flip struct {
	Before Toggle
	After  Toggle
}

// FlipToggle inverts t and moves the counter with it, never below zero.
func FlipToggle(t Toggle) Flip {
	after := Toggle{On: !t.On, Count: t.Count}
	if after.On {
		after.Count++
	} else if after.Count > 0 {
		after.Count--
	}

	return Flip{Before: t, After: after}
}

// Revert returns the state before the flip.
func (f Flip) Revert() Toggle {
	return f.Before
}

// ConfirmLike settles a like flip with what the server reported.
func (f Flip) ConfirmLike(res engagement.LikeResult) Toggle {
	return Toggle{On: res.Liked, Count: res.Count}
}

// ConfirmBookmark settles a bookmark flip with what the server reported.
func (f Flip) ConfirmBookmark(res engagement.BookmarkResult) Toggle {
	return Toggle{On: res.Bookmarked}
}

// FlipLike optimistically toggles the like of a listed post.
func (f *Feed) FlipLike(postID uint64) (Flip, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID != postID {
			continue
		}

		flip := FlipToggle(Toggle{On: f.posts[i].IsLiked, Count: f.posts[i].Likes})
		f.posts[i].IsLiked, f.posts[i].Likes = flip.After.On, flip.After.Count

		return flip, true
	}

	return Flip{}, false
}

// FlipBookmark optimistically toggles the bookmark of a listed post.
func (f *Feed) FlipBookmark(postID uint64) (Flip, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID != postID {
			continue
		}

		flip := FlipToggle(Toggle{On: f.posts[i].IsBookmarked})
		flip.After.Count = 0
		f.posts[i].IsBookmarked = flip.After.On

		return flip, true
	}

	return Flip{}, false
}

// SetLike writes a settled like state into the listed post.
func (f *Feed) SetLike(postID uint64, t Toggle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID == postID {
			f.posts[i].IsLiked, f.posts[i].Likes = t.On, t.Count
		}
	}
}

// SetBookmark writes a settled bookmark state into the listed post.
func (f *Feed) SetBookmark(postID uint64, t Toggle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.posts {
		if f.posts[i].ID == postID {
			f.posts[i].IsBookmarked = t.On
		}
	}
}
