package models

import "time"

// Like is one member of a post's like set. Actor is the decimal user id for
// signed-in users or the client IP for guests.
type Like struct {
	ID        uint64 `gorm:"primaryKey"`
	PostID    uint64 `gorm:"uniqueIndex:idx_like_post_actor;not null"`
	Actor     string `gorm:"uniqueIndex:idx_like_post_actor;size:64;not null"`
	CreatedAt time.Time
}

// Bookmark is one member of a user's bookmark set.
type Bookmark struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"uniqueIndex:idx_bookmark_user_post;not null"`
	PostID    uint64 `gorm:"uniqueIndex:idx_bookmark_user_post;not null"`
	CreatedAt time.Time
}
