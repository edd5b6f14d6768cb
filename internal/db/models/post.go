package models

import "time"

// Post status values.
const (
	PostStatusPublish = "publish"
	PostStatusDraft   = "draft"
)

// Category groups posts. Slug is what the feed filters by.
type Category struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"size:200;not null"`
	Slug string `gorm:"unique;size:200;not null"`
}

// Post is a published article of the host site.
type Post struct {
	ID           uint64  `gorm:"primaryKey"`
	Title        string  `gorm:"size:255;not null"`
	Slug         string  `gorm:"size:200;index"`
	Excerpt      string  `gorm:"type:text"`
	Content      string  `gorm:"type:text"`
	Permalink    string  `gorm:"size:255"`
	Thumbnail    string  `gorm:"size:255"`
	Status       string  `gorm:"size:20;index;not null;default:'publish'"`
	AuthorID     *uint64 `gorm:"index"`
	Author       *User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	CommentCount int
	// Featured posts are excluded from the regular feed.
	Featured   bool       `gorm:"index"`
	Views      int64      `gorm:"not null;default:0"`
	Categories []Category `gorm:"many2many:post_categories"`
	// PublishedAt orders the feed, newest first.
	PublishedAt time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
