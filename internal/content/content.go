// Package content reads posts and categories for the app shell feed.
package content

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/markup"
)

// Paging limits.
const (
	DefaultPerPage = 10
	MaxPerPage     = 50
	ExcerptWords   = 20
)

// ErrNotFound is returned when a post does not exist or is not published.
var ErrNotFound = errors.New("post not found")

// Query selects one page of the feed. Category and Search are exclusive in
// the shell but both are honored here when set.
type Query struct {
	Page            int    `query:"page"`
	PerPage         int    `query:"per_page"`
	Category        string `query:"category"`
	Search          string `query:"search"`
	ExcludeFeatured bool   `query:"-"`
}

// Normalize clamps paging to the supported range.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}

	switch {
	case q.PerPage < 1:
		q.PerPage = DefaultPerPage
	case q.PerPage > MaxPerPage:
		q.PerPage = MaxPerPage
	}

	q.Category = strings.TrimSpace(q.Category)
	q.Search = strings.TrimSpace(q.Search)

	return q
}

// Summary is a post as listed in the feed.
type Summary struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Excerpt      string    `json:"excerpt"`
	Permalink    string    `json:"permalink"`
	Thumbnail    string    `json:"thumbnail"`
	Author       string    `json:"author"`
	Date         string    `json:"date"`
	PublishedAt  time.Time `json:"published_at"`
	Categories   []string  `json:"categories"`
	Likes        int64     `json:"likes"`
	Comments     int       `json:"comments"`
	Views        int64     `json:"views"`
	Featured     bool      `json:"featured"`
	IsLiked      bool      `json:"is_liked"`
	IsBookmarked bool      `json:"is_bookmarked"`
}

// Page is one page of summaries.
type Page struct {
	Posts      []Summary `json:"posts"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int64     `json:"total"`
	TotalPages int       `json:"total_pages"`
	HasMore    bool      `json:"has_more"`
}

// Detail is a single post with its body and related posts.
type Detail struct {
	Summary
	Content string    `json:"content"`
	Related []Summary `json:"related"`
}

// CategoryInfo is a category with its number of published posts.
type CategoryInfo struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

// Repository reads published posts.
type Repository struct {
	db      *gorm.DB
	tracker *engagement.Tracker
	now     func() time.Time
}

// NewRepository returns a repository over db. tracker supplies like and
// bookmark state and may be nil.
func NewRepository(db *gorm.DB, tracker *engagement.Tracker) *Repository {
	return &Repository{db: db, tracker: tracker, now: time.Now}
}

func (r *Repository) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Post{}).Where("posts.status = ?", models.PostStatusPublish)
}

// likeEscaper makes search text match literally. The escape character is
// '!' because a backslash needs doubling inside MySQL string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_") //nolint:gochecknoglobals

func (r *Repository) filtered(ctx context.Context, q Query) *gorm.DB {
	tx := r.published(ctx)

	if q.ExcludeFeatured {
		tx = tx.Where("posts.featured = ?", false)
	}

	if q.Category != "" {
		tx = tx.Where("posts.id IN (?)", r.db.Table("post_categories").
			Select("post_categories.post_id").
			Joins("JOIN categories ON categories.id = post_categories.category_id").
			Where("categories.slug = ?", q.Category))
	}

	if q.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		tx = tx.Where("(LOWER(posts.title) LIKE ? ESCAPE '!' OR LOWER(posts.content) LIKE ? ESCAPE '!')", like, like)
	}

	return tx
}

// List returns one page of published posts, newest first.
func (r *Repository) List(ctx context.Context, q Query, actor engagement.Actor) (*Page, error) {
	q = q.Normalize()

	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count posts")
	}

	var posts []models.Post

	err := r.filtered(ctx, q).
		Preload("Author").
		Preload("Categories").
		Order("posts.published_at DESC, posts.id DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}

	summaries, err := r.summarize(ctx, posts, actor)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))

	return &Page{
		Posts:      summaries,
		Page:       q.Page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    int64(q.Page*q.PerPage) < total,
	}, nil
}

// Get returns a published post with up to relatedLimit related posts.
func (r *Repository) Get(ctx context.Context, id uint64, relatedLimit int, actor engagement.Actor) (*Detail, error) {
	var post models.Post

	err := r.published(ctx).Preload("Author").Preload("Categories").Where("posts.id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "load post")
	}

	summaries, err := r.summarize(ctx, []models.Post{post}, actor)
	if err != nil {
		return nil, err
	}

	related, err := r.Related(ctx, id, relatedLimit, actor)
	if err != nil {
		return nil, err
	}

	return &Detail{Summary: summaries[0], Content: post.Content, Related: related}, nil
}

// Categories returns every category with its published post count, by name.
func (r *Repository) Categories(ctx context.Context) ([]CategoryInfo, error) {
	out := []CategoryInfo{}

	err := r.db.WithContext(ctx).Table("categories").
		Select("categories.id, categories.name, categories.slug, COUNT(posts.id) AS count").
		Joins("LEFT JOIN post_categories ON post_categories.category_id = categories.id").
		Joins("LEFT JOIN posts ON posts.id = post_categories.post_id AND posts.status = ?", models.PostStatusPublish).
		Group("categories.id, categories.name, categories.slug").
		Order("categories.name").
		Scan(&out).Error

	return out, errors.Wrap(err, "list categories")
}

// Featured returns up to limit featured posts, newest first.
func (r *Repository) Featured(ctx context.Context, limit int, actor engagement.Actor) ([]Summary, error) {
	var posts []models.Post

	err := r.published(ctx).
		Preload("Author").
		Preload("Categories").
		Where("posts.featured = ?", true).
		Order("posts.published_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list featured posts")
	}

	return r.summarize(ctx, posts, actor)
}

// SetFeatured marks or unmarks a post as featured.
func (r *Repository) SetFeatured(ctx context.Context, id uint64, featured bool) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).UpdateColumn("featured", featured)
	if res.Error != nil {
		return errors.Wrap(res.Error, "set featured")
	}

	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return errors.Wrap(err, "load post")
		}

		if n == 0 {
			return ErrNotFound
		}
	}

	return nil
}

// Trending returns posts published in the last days, most liked first.
func (r *Repository) Trending(ctx context.Context, limit, days int, actor engagement.Actor) ([]Summary, error) {
	since := r.now().AddDate(0, 0, -days)
	likes := r.db.Table("likes").Select("post_id, COUNT(*) AS total").Group("post_id")

	var posts []models.Post

	err := r.published(ctx).
		Preload("Author").
		Preload("Categories").
		Joins("LEFT JOIN (?) AS lc ON lc.post_id = posts.id", likes).
		Where("posts.published_at >= ?", since).
		Order("COALESCE(lc.total, 0) DESC, posts.published_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list trending posts")
	}

	return r.summarize(ctx, posts, actor)
}

// Related returns up to limit published posts sharing a category with the
// post, newest first. The post itself is never included.
func (r *Repository) Related(ctx context.Context, id uint64, limit int, actor engagement.Actor) ([]Summary, error) {
	if limit <= 0 {
		return []Summary{}, nil
	}

	categories := r.db.Table("post_categories").Select("category_id").Where("post_id = ?", id)
	sharing := r.db.Table("post_categories").Select("post_id").Where("category_id IN (?)", categories)

	var posts []models.Post

	err := r.published(ctx).
		Preload("Author").
		Preload("Categories").
		Where("posts.id IN (?)", sharing).
		Where("posts.id <> ?", id).
		Order("posts.published_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list related posts")
	}

	return r.summarize(ctx, posts, actor)
}

// Posts returns the published posts with the given ids in the given order.
func (r *Repository) Posts(ctx context.Context, ids []uint64, actor engagement.Actor) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	var posts []models.Post
	if err := r.published(ctx).Preload("Author").Preload("Categories").
		Where("posts.id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "load posts")
	}

	byID := make(map[uint64]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]models.Post, 0, len(posts))

	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}

	return r.summarize(ctx, ordered, actor)
}

func (r *Repository) summarize(ctx context.Context, posts []models.Post, actor engagement.Actor) ([]Summary, error) {
	out := make([]Summary, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	states := map[uint64]engagement.State{}

	if r.tracker != nil {
		ids := make([]uint64, len(posts))
		for i, p := range posts {
			ids[i] = p.ID
		}

		var err error
		if states, err = r.tracker.States(ctx, ids, actor); err != nil {
			return nil, err
		}
	}

	now := r.now()

	for _, p := range posts {
		excerpt := p.Excerpt
		if strings.TrimSpace(excerpt) == "" {
			excerpt = p.Content
		}

		categories := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			categories = append(categories, c.Name)
		}

		author := ""
		if p.Author != nil {
			author = p.Author.Name()
		}

		st := states[p.ID]

		out = append(out, Summary{
			ID:           p.ID,
			Title:        p.Title,
			Excerpt:      markup.TrimWords(excerpt, ExcerptWords),
			Permalink:    p.Permalink,
			Thumbnail:    p.Thumbnail,
			Author:       author,
			Date:         humanize.RelTime(p.PublishedAt, now, "ago", "from now"),
			PublishedAt:  p.PublishedAt,
			Categories:   categories,
			Likes:        st.Likes,
			Comments:     p.CommentCount,
			Views:        p.Views,
			Featured:     p.Featured,
			IsLiked:      st.IsLiked,
			IsBookmarked: st.IsBookmarked,
		})
	}

	return out, nil
}
