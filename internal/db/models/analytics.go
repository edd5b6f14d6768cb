package models

import "time"

// AnalyticsEvent is a single recorded interaction with a post.
type AnalyticsEvent struct {
	ID        uint64    `gorm:"primaryKey"`
	PostID    uint64    `gorm:"index;not null"`
	EventType string    `gorm:"index;size:50;not null"`
	UserID    uint64    `gorm:"default:0"`
	UserIP    string    `gorm:"size:45;not null"`
	UserAgent string    `gorm:"type:text"`
	EventData string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName pins the table name used by the retention sweep.
func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// All returns every model managed by the application, in migration order.
func All() []any {
	return []any{
		&Setting{},
		&User{},
		&Category{},
		&Post{},
		&Like{},
		&Bookmark{},
		&AnalyticsEvent{},
	}
}
