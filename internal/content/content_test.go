package content

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoWebAPP/GoWebAPP/internal/db/dbtest"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

// seed creates n published posts; post i is i hours old. Even posts are in
// "tech", odd posts in "life".
func seed(t *testing.T, n int) (*Repository, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t)

	author := models.User{Username: "jane", DisplayName: "Jane Doe", Password: "x", Active: true}
	require.NoError(t, db.Create(&author).Error)

	tech := models.Category{Name: "Tech", Slug: "tech"}
	life := models.Category{Name: "Life", Slug: "life"}
	require.NoError(t, db.Create(&tech).Error)
	require.NoError(t, db.Create(&life).Error)

	for i := 1; i <= n; i++ {
		cat := life
		if i%2 == 0 {
			cat = tech
		}

		p := models.Post{
			ID:          uint64(i),
			Title:       fmt.Sprintf("Post %d", i),
			Content:     fmt.Sprintf("<p>Body of post number %d</p>", i),
			Permalink:   fmt.Sprintf("/post-%d", i),
			Status:      models.PostStatusPublish,
			AuthorID:    &author.ID,
			Categories:  []models.Category{cat},
			PublishedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&p).Error)
	}

	tracker := engagement.NewTracker(db, nil)
	repo := NewRepository(db, tracker)
	repo.now = func() time.Time { return now }

	return repo, db
}

func TestQueryNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   Query
		want Query
	}{
		{name: "defaults", in: Query{}, want: Query{Page: 1, PerPage: DefaultPerPage}},
		{name: "clamps per page", in: Query{Page: 3, PerPage: 500}, want: Query{Page: 3, PerPage: MaxPerPage}},
		{name: "trims filters", in: Query{Page: 1, PerPage: 5, Search: "  go "}, want: Query{Page: 1, PerPage: 5, Search: "go"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestListPaging(t *testing.T) {
	repo, _ := seed(t, 25)
	ctx := context.Background()

	var ids []uint64

	wantMore := []bool{true, true, false}
	wantLen := []int{10, 20, 25}

	for i := range 3 {
		page, err := repo.List(ctx, Query{Page: i + 1, PerPage: 10}, engagement.Actor{})
		require.NoError(t, err)

		for _, p := range page.Posts {
			ids = append(ids, p.ID)
		}

		assert.Len(t, ids, wantLen[i])
		assert.Equal(t, wantMore[i], page.HasMore)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, int64(25), page.Total)
	}

	assert.Equal(t, uint64(1), ids[0], "newest first")
	assert.Equal(t, uint64(25), ids[24])
}

func TestListFilters(t *testing.T) {
	repo, _ := seed(t, 6)
	ctx := context.Background()

	page, err := repo.List(ctx, Query{Category: "tech"}, engagement.Actor{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)

	for _, p := range page.Posts {
		assert.Equal(t, []string{"Tech"}, p.Categories)
	}

	page, err = repo.List(ctx, Query{Search: "NUMBER 5"}, engagement.Actor{})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, uint64(5), page.Posts[0].ID)
	assert.Equal(t, "Jane Doe", page.Posts[0].Author)
	assert.Equal(t, "Body of post number 5", page.Posts[0].Excerpt)
	assert.Equal(t, "5 hours ago", page.Posts[0].Date)

	page, err = repo.List(ctx, Query{Search: "nothing matches"}, engagement.Actor{})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
}

func TestListSearchMatchesWildcardsLiterally(t *testing.T) {
	repo, db := seed(t, 3)
	ctx := context.Background()

	for i, title := range []string{"100% organic", "Sale 50_off", "Yes! really"} {
		p := models.Post{
			ID:          uint64(100 + i),
			Title:       title,
			Status:      models.PostStatusPublish,
			PublishedAt: now.Add(-time.Duration(10+i) * time.Hour),
		}
		require.NoError(t, db.Create(&p).Error)
	}

	testCases := []struct {
		name     string
		search   string
		expected []uint64
	}{
		{name: "percent", search: "100%", expected: []uint64{100}},
		{name: "bare percent", search: "%", expected: []uint64{100}},
		{name: "underscore", search: "_", expected: []uint64{101}},
		{name: "underscore is not any character", search: "50_o", expected: []uint64{101}},
		{name: "escape character", search: "yes!", expected: []uint64{102}},
		{name: "plain text", search: "post 2", expected: []uint64{2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := repo.List(ctx, Query{Search: tc.search}, engagement.Actor{})
			require.NoError(t, err)

			ids := make([]uint64, 0, len(page.Posts))
			for _, p := range page.Posts {
				ids = append(ids, p.ID)
			}

			assert.Equal(t, tc.expected, ids)
			assert.Equal(t, int64(len(tc.expected)), page.Total)
		})
	}
}

func TestFeatured(t *testing.T) {
	repo, _ := seed(t, 4)
	ctx := context.Background()

	require.NoError(t, repo.SetFeatured(ctx, 2, true))
	require.ErrorIs(t, repo.SetFeatured(ctx, 99, true), ErrNotFound)

	featured, err := repo.Featured(ctx, 5, engagement.Actor{})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, uint64(2), featured[0].ID)

	page, err := repo.List(ctx, Query{ExcludeFeatured: true}, engagement.Actor{})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 3)

	for _, p := range page.Posts {
		assert.NotEqual(t, uint64(2), p.ID)
	}

	require.NoError(t, repo.SetFeatured(ctx, 2, false))

	featured, err = repo.Featured(ctx, 5, engagement.Actor{})
	require.NoError(t, err)
	assert.Empty(t, featured)
}

func TestTrendingAndRelated(t *testing.T) {
	repo, db := seed(t, 6)
	ctx := context.Background()
	tracker := engagement.NewTracker(db, nil)

	for _, ip := range []string{"1.1.1.1", "2.2.2.2"} {
		_, err := tracker.ToggleLike(ctx, 4, engagement.GuestActor(ip))
		require.NoError(t, err)
	}

	_, err := tracker.ToggleLike(ctx, 3, engagement.GuestActor("1.1.1.1"))
	require.NoError(t, err)

	trending, err := repo.Trending(ctx, 3, 7, engagement.GuestActor("1.1.1.1"))
	require.NoError(t, err)
	require.Len(t, trending, 3)
	assert.Equal(t, uint64(4), trending[0].ID)
	assert.Equal(t, int64(2), trending[0].Likes)
	assert.True(t, trending[0].IsLiked)
	assert.Equal(t, uint64(3), trending[1].ID)
	assert.Equal(t, uint64(1), trending[2].ID)

	related, err := repo.Related(ctx, 2, 5, engagement.Actor{})
	require.NoError(t, err)

	ids := make([]uint64, 0, len(related))
	for _, p := range related {
		ids = append(ids, p.ID)
	}

	assert.Equal(t, []uint64{4, 6}, ids)
}

func TestGet(t *testing.T) {
	repo, db := seed(t, 4)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Post{ID: 50, Title: "Draft", Status: models.PostStatusDraft, PublishedAt: now}).Error)

	d, err := repo.Get(ctx, 2, 3, engagement.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "Post 2", d.Title)
	assert.True(t, strings.Contains(d.Content, "number 2"))
	require.Len(t, d.Related, 1)
	assert.Equal(t, uint64(4), d.Related[0].ID)

	_, err = repo.Get(ctx, 50, 3, engagement.Actor{})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Get(ctx, 999, 3, engagement.Actor{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCategories(t *testing.T) {
	repo, _ := seed(t, 5)

	cats, err := repo.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, CategoryInfo{ID: cats[0].ID, Name: "Life", Slug: "life", Count: 3}, cats[0])
	assert.Equal(t, int64(2), cats[1].Count)
}

func TestPostsKeepsOrder(t *testing.T) {
	repo, _ := seed(t, 5)

	posts, err := repo.Posts(context.Background(), []uint64{3, 99, 1}, engagement.Actor{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, uint64(3), posts[0].ID)
	assert.Equal(t, uint64(1), posts[1].ID)
}
