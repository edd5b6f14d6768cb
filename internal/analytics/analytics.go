// Package analytics records post interactions and maintains the events table.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

// Event types.
const (
	EventView     = "view"
	EventLike     = "like"
	EventBookmark = "bookmark"
)

// ErrDBNil is returned when the recorder has no database.
var ErrDBNil = errors.New("database connection is nil")

// Event is one interaction to record.
type Event struct {
	PostID    uint64
	Type      string
	UserID    uint64
	IP        string
	UserAgent string
	Data      map[string]any
}

// Recorder writes and reads the analytics_events table.
type Recorder struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRecorder returns a recorder over db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Record stores e. Data is stored as a JSON document.
func (r *Recorder) Record(ctx context.Context, e Event) error {
	if r.db == nil {
		return ErrDBNil
	}

	data := "{}"

	if len(e.Data) > 0 {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return errors.Wrap(err, "encode event data")
		}

		data = string(b)
	}

	row := models.AnalyticsEvent{
		PostID:    e.PostID,
		EventType: e.Type,
		UserID:    e.UserID,
		UserIP:    e.IP,
		UserAgent: e.UserAgent,
		EventData: data,
		CreatedAt: r.now(),
	}

	return errors.Wrap(r.db.WithContext(ctx).Create(&row).Error, "record event")
}

// TypeCount is the number of events of one type.
type TypeCount struct {
	EventType string `json:"event_type"`
	Total     int64  `json:"total"`
}

// PostCount is the number of events recorded for one post.
type PostCount struct {
	PostID uint64 `json:"post_id"`
	Title  string `json:"title"`
	Total  int64  `json:"total"`
}

// Summary aggregates events since a point in time.
type Summary struct {
	Since    time.Time   `json:"since"`
	ByType   []TypeCount `json:"by_type"`
	TopPosts []PostCount `json:"top_posts"`
}

// Summarize counts events per type and the most active posts since since.
func (r *Recorder) Summarize(ctx context.Context, since time.Time, limit int) (*Summary, error) {
	if r.db == nil {
		return nil, ErrDBNil
	}

	s := &Summary{Since: since}
	db := r.db.WithContext(ctx)

	err := db.Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) AS total").
		Where("created_at >= ?", since).
		Group("event_type").
		Order("total DESC, event_type").
		Scan(&s.ByType).Error
	if err != nil {
		return nil, errors.Wrap(err, "count events by type")
	}

	err = db.Table("analytics_events AS e").
		Select("e.post_id AS post_id, p.title AS title, COUNT(*) AS total").
		Joins("LEFT JOIN posts AS p ON p.id = e.post_id").
		Where("e.created_at >= ?", since).
		Group("e.post_id, p.title").
		Order("total DESC, e.post_id").
		Limit(limit).
		Scan(&s.TopPosts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count events by post")
	}

	return s, nil
}

// Prune deletes events created before cutoff and returns how many were removed.
func (r *Recorder) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNil
	}

	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.AnalyticsEvent{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "prune events")
	}

	log.Debug().Int64("rows", res.RowsAffected).Time("cutoff", cutoff).Msg("analytics pruned")

	return res.RowsAffected, nil
}

// Purge deletes every recorded event.
func (r *Recorder) Purge(ctx context.Context) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNil
	}

	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.AnalyticsEvent{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "purge events")
	}

	return res.RowsAffected, nil
}

// Optimize compacts the events table with the engine's own statement.
func (r *Recorder) Optimize(ctx context.Context) error {
	if r.db == nil {
		return ErrDBNil
	}

	var stmt string

	switch r.db.Dialector.Name() {
	case "mysql":
		stmt = "OPTIMIZE TABLE analytics_events"
	case "postgres":
		stmt = "VACUUM ANALYZE analytics_events"
	default:
		stmt = "VACUUM"
	}

	return errors.Wrapf(r.db.WithContext(ctx).Exec(stmt).Error, "optimize (%s)", r.db.Dialector.Name())
}
