// Package engagement keeps per-post like sets, per-user bookmark sets and
// view counters.
//
// Toggles are not serialized across requests. Two concurrent toggles from
// the same actor may leave either state; the unique indexes on both tables
// keep an actor from appearing twice in a set.
package engagement

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/analytics"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

// Bookmark toggle messages shown to the visitor.
const (
	MessageBookmarked = "Post bookmarked!"
	MessageRemoved    = "Bookmark removed!"
)

// LikeResult is the like state after a toggle.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// BookmarkResult is the bookmark state after a toggle.
type BookmarkResult struct {
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
}

// View describes one post view.
type View struct {
	Actor     Actor
	UserAgent string
	Referrer  string
}

// Tracker reads and toggles engagement state.
type Tracker struct {
	db       *gorm.DB
	recorder *analytics.Recorder
	now      func() time.Time
}

// NewTracker returns a tracker over db. recorder may be nil.
func NewTracker(db *gorm.DB, recorder *analytics.Recorder) *Tracker {
	return &Tracker{db: db, recorder: recorder, now: time.Now}
}

// ToggleLike adds the actor to the post's like set, or removes it when
// already present, and returns the new state and set size.
func (t *Tracker) ToggleLike(ctx context.Context, postID uint64, actor Actor) (LikeResult, error) {
	if err := t.checkPost(ctx, postID); err != nil {
		return LikeResult{}, err
	}

	actorID := actor.ID()
	if actorID == "" {
		return LikeResult{}, ErrNoActor
	}

	var res LikeResult

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("post_id = ? AND actor = ?", postID, actorID).Delete(&models.Like{})
		if del.Error != nil {
			return del.Error
		}

		if del.RowsAffected == 0 {
			if err := tx.Create(&models.Like{PostID: postID, Actor: actorID}).Error; err != nil {
				return err
			}

			res.Liked = true
		}

		return tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&res.Count).Error
	})
	if err != nil {
		return LikeResult{}, errors.Wrap(err, "toggle like")
	}

	likesToggled.WithLabelValues(result(res.Liked, "liked", "unliked")).Inc()

	if res.Liked {
		t.record(ctx, analytics.Event{PostID: postID, Type: analytics.EventLike, UserID: actor.UserID, IP: actor.IP})
	}

	return res, nil
}

// ToggleBookmark flips the post in the user's bookmark set. It fails with
// ErrUnauthenticated for guests and never touches state in that case.
func (t *Tracker) ToggleBookmark(ctx context.Context, postID, userID uint64) (BookmarkResult, error) {
	if userID == 0 {
		return BookmarkResult{}, ErrUnauthenticated
	}

	if err := t.checkPost(ctx, postID); err != nil {
		return BookmarkResult{}, err
	}

	var res BookmarkResult

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
		if del.Error != nil {
			return del.Error
		}

		if del.RowsAffected > 0 {
			return nil
		}

		res.Bookmarked = true

		return tx.Create(&models.Bookmark{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return BookmarkResult{}, errors.Wrap(err, "toggle bookmark")
	}

	res.Message = MessageRemoved
	if res.Bookmarked {
		res.Message = MessageBookmarked

		t.record(ctx, analytics.Event{PostID: postID, Type: analytics.EventBookmark, UserID: userID})
	}

	bookmarksToggled.WithLabelValues(result(res.Bookmarked, "bookmarked", "removed")).Inc()

	return res, nil
}

// LikeCount returns the size of the post's like set.
func (t *Tracker) LikeCount(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error

	return n, errors.Wrap(err, "count likes")
}

// IsLiked reports whether the actor is in the post's like set.
func (t *Tracker) IsLiked(ctx context.Context, postID uint64, actor Actor) (bool, error) {
	if actor.ID() == "" {
		return false, nil
	}

	var n int64
	err := t.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND actor = ?", postID, actor.ID()).
		Count(&n).Error

	return n > 0, errors.Wrap(err, "check like")
}

// Bookmarks returns the user's bookmarked post ids, newest first.
func (t *Tracker) Bookmarks(ctx context.Context, userID uint64) ([]uint64, error) {
	ids := []uint64{}
	if userID == 0 {
		return ids, nil
	}

	err := t.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Pluck("post_id", &ids).Error

	return ids, errors.Wrap(err, "list bookmarks")
}

// IsBookmarked reports whether the post is in the user's bookmark set.
func (t *Tracker) IsBookmarked(ctx context.Context, postID, userID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	var n int64
	err := t.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error

	return n > 0, errors.Wrap(err, "check bookmark")
}

// State is the engagement of one post as seen by one actor.
type State struct {
	Likes        int64
	IsLiked      bool
	IsBookmarked bool
}

// States returns the engagement of every given post for actor in three queries.
func (t *Tracker) States(ctx context.Context, postIDs []uint64, actor Actor) (map[uint64]State, error) {
	out := make(map[uint64]State, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	db := t.db.WithContext(ctx)

	var counts []struct {
		PostID uint64
		Total  int64
	}

	err := db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count likes")
	}

	for _, c := range counts {
		s := out[c.PostID]
		s.Likes = c.Total
		out[c.PostID] = s
	}

	if id := actor.ID(); id != "" {
		var liked []uint64
		if err := db.Model(&models.Like{}).Where("post_id IN ? AND actor = ?", postIDs, id).
			Pluck("post_id", &liked).Error; err != nil {
			return nil, errors.Wrap(err, "load likes")
		}

		for _, p := range liked {
			s := out[p]
			s.IsLiked = true
			out[p] = s
		}
	}

	if actor.Authenticated() {
		var marked []uint64
		if err := db.Model(&models.Bookmark{}).Where("post_id IN ? AND user_id = ?", postIDs, actor.UserID).
			Pluck("post_id", &marked).Error; err != nil {
			return nil, errors.Wrap(err, "load bookmarks")
		}

		for _, p := range marked {
			s := out[p]
			s.IsBookmarked = true
			out[p] = s
		}
	}

	return out, nil
}

// RecordView increments the post's view counter and records a view event.
func (t *Tracker) RecordView(ctx context.Context, postID uint64, v View) error {
	if postID == 0 {
		return ErrInvalidPostID
	}

	res := t.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return errors.Wrap(res.Error, "count view")
	}

	if res.RowsAffected == 0 {
		return ErrPostNotFound
	}

	t.record(ctx, analytics.Event{
		PostID:    postID,
		Type:      analytics.EventView,
		UserID:    v.Actor.UserID,
		IP:        v.Actor.IP,
		UserAgent: v.UserAgent,
		Data: map[string]any{
			"referrer":  v.Referrer,
			"timestamp": t.now().UTC().Format(time.DateTime),
		},
	})

	return nil
}

// ViewCount returns the post's view counter.
func (t *Tracker) ViewCount(ctx context.Context, postID uint64) (int64, error) {
	var views int64
	err := t.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Select("views").Scan(&views).Error

	return views, errors.Wrap(err, "load views")
}

// Purged counts what Purge removed.
type Purged struct {
	Likes     int64
	Bookmarks int64
	Posts     int64
}

// Purge empties every like and bookmark set and clears the view counters
// and featured flags of all posts, in one transaction.
func (t *Tracker) Purge(ctx context.Context) (Purged, error) {
	var out Purged

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&models.Like{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete likes")
		}

		out.Likes = res.RowsAffected

		res = tx.Where("1 = 1").Delete(&models.Bookmark{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete bookmarks")
		}

		out.Bookmarks = res.RowsAffected

		res = tx.Model(&models.Post{}).
			Where("views <> ? OR featured = ?", 0, true).
			UpdateColumns(map[string]any{"views": 0, "featured": false})
		if res.Error != nil {
			return errors.Wrap(res.Error, "reset post counters")
		}

		out.Posts = res.RowsAffected

		return nil
	})
	if err != nil {
		return Purged{}, err
	}

	log.Info().Int64("likes", out.Likes).Int64("bookmarks", out.Bookmarks).Int64("posts", out.Posts).
		Msg("engagement purged")

	return out, nil
}

func (t *Tracker) checkPost(ctx context.Context, postID uint64) error {
	if postID == 0 {
		return ErrInvalidPostID
	}

	var n int64
	if err := t.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return errors.Wrap(err, "load post")
	}

	if n == 0 {
		return ErrPostNotFound
	}

	return nil
}

// record is best effort; a failed analytics write never fails the action.
func (t *Tracker) record(ctx context.Context, e analytics.Event) {
	if t.recorder == nil {
		return
	}

	if err := t.recorder.Record(ctx, e); err != nil {
		log.Warn().Err(err).Uint64("post", e.PostID).Str("event", e.Type).Msg("failed to record analytics event")
	}
}
