package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GoWebAPP/GoWebAPP/internal/content"
	"github.com/GoWebAPP/GoWebAPP/internal/engagement"
	"github.com/GoWebAPP/GoWebAPP/internal/shell"
)

// ErrNotListed is returned when a toggled post is not in the loaded feed.
var ErrNotListed = errors.New("post is not in the loaded feed")

func init() { //nolint: gochecknoinits
	feedCmd.Flags().String("url", "http://localhost:8080", "Base URL of a running WebAPP")
	feedCmd.Flags().String("category", "", "Category slug")
	feedCmd.Flags().String("search", "", "Search term")
	feedCmd.Flags().Int("pages", 1, "Number of pages to load")
	feedCmd.Flags().Int("per-page", 0, "Posts per page")
	feedCmd.Flags().Duration("timeout", 10*time.Second, "Request timeout")
	feedCmd.Flags().UintSlice("like", nil, "Toggle the like of these listed post IDs")
	feedCmd.Flags().UintSlice("bookmark", nil, "Toggle the bookmark of these listed post IDs")
	feedCmd.Flags().String("csrf", "", "Anti-forgery token sent with toggles")
	feedCmd.Flags().String("cookie", "", "Cookie header sent with toggles, e.g. the session and token cookies")
	feedCmd.Flags().Bool("interactive", false, "Read search terms from stdin, one per line, debounced like the search box")

	rootCmd.AddCommand(feedCmd)
}

// feedCmd walks a remote feed the way the app shell does.
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Print the post feed of a running WebAPP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()

		baseURL, _ := f.GetString("url")
		category, _ := f.GetString("category")
		search, _ := f.GetString("search")
		pages, _ := f.GetInt("pages")
		perPage, _ := f.GetInt("per-page")
		timeout, _ := f.GetDuration("timeout")
		likes, _ := f.GetUintSlice("like")
		bookmarks, _ := f.GetUintSlice("bookmark")
		token, _ := f.GetString("csrf")
		cookie, _ := f.GetString("cookie")
		interactive, _ := f.GetBool("interactive")

		source := shell.RemoteSource{BaseURL: baseURL, Timeout: timeout, CSRFToken: token, Cookie: cookie}
		loader := &shell.Loader{Feed: shell.NewFeed(perPage), Source: source}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		out := cmd.OutOrStdout()

		if interactive {
			return searchAsTyped(ctx, cmd.InOrStdin(), out, loader, shell.DefaultDebounce)
		}

		var err error

		switch {
		case search != "":
			err = loader.Search(ctx, search)
		case category != "":
			err = loader.SelectCategory(ctx, category)
		default:
			err = loader.Initial(ctx)
		}

		for i := 1; err == nil && i < pages; i++ {
			var more bool
			if more, err = loader.LoadMore(ctx); !more {
				break
			}
		}

		if err != nil {
			return err
		}

		if err = toggle(ctx, out, loader, source, likes, bookmarks); err != nil {
			return err
		}

		return printFeed(out, loader.Feed.Snapshot())
	},
}

// toggle sends the like and bookmark toggles through the loader, which
// flips the listed post first and reverts it when the server refuses.
func toggle(ctx context.Context, out io.Writer, loader *shell.Loader, e shell.Engager, likes, bookmarks []uint) error {
	for _, id := range likes {
		post, err := toggled(loader, uint64(id), func() error { return loader.ToggleLike(ctx, e, uint64(id)) })
		if err != nil {
			return errors.Wrapf(err, "like %d", id)
		}

		if _, err = fmt.Fprintf(out, "post %d liked: %t (%s likes)\n",
			post.ID, post.IsLiked, engagement.FormatNumber(post.Likes)); err != nil {
			return err
		}
	}

	for _, id := range bookmarks {
		post, err := toggled(loader, uint64(id), func() error { return loader.ToggleBookmark(ctx, e, uint64(id)) })
		if err != nil {
			return errors.Wrapf(err, "bookmark %d", id)
		}

		if _, err = fmt.Fprintf(out, "post %d bookmarked: %t\n", post.ID, post.IsBookmarked); err != nil {
			return err
		}
	}

	return nil
}

func toggled(loader *shell.Loader, id uint64, send func() error) (content.Summary, error) {
	if _, ok := listed(loader.Feed.Snapshot(), id); !ok {
		return content.Summary{}, ErrNotListed
	}

	if err := send(); err != nil {
		return content.Summary{}, err
	}

	post, _ := listed(loader.Feed.Snapshot(), id)

	return post, nil
}

func listed(snap shell.Snapshot, id uint64) (content.Summary, bool) {
	for _, p := range snap.Posts {
		if p.ID == id {
			return p, true
		}
	}

	return content.Summary{}, false
}

// searchAsTyped treats every input line as the current content of the
// search box. Only the last line typed within delay is searched.
func searchAsTyped(ctx context.Context, in io.Reader, out io.Writer, loader *shell.Loader, delay time.Duration) error {
	var (
		mu       sync.Mutex
		firstErr error
	)

	d := shell.NewDebouncer(delay, func(query string) {
		mu.Lock()
		defer mu.Unlock()

		err := loader.Search(ctx, query)
		if err == nil {
			_, err = fmt.Fprintf(out, "search %q\n", query)
		}

		if err == nil {
			err = printFeed(out, loader.Feed.Snapshot())
		}

		if err != nil && firstErr == nil {
			firstErr = err
		}
	})

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		d.Trigger(strings.TrimSpace(scanner.Text()))
	}

	d.Flush()

	mu.Lock()
	defer mu.Unlock()

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read search terms")
	}

	return firstErr
}

func printFeed(out io.Writer, snap shell.Snapshot) error {
	for _, p := range snap.Posts {
		if _, err := fmt.Fprintf(out, "%6d  %-50s  %s likes  %s\n",
			p.ID, p.Title, engagement.FormatNumber(p.Likes), p.Date); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(out, "%d posts, page %d, more: %t\n", len(snap.Posts), snap.Page, snap.HasMore)

	return err
}
