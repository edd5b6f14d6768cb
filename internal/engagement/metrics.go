package engagement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesToggled = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "webapp",
		Name:      "likes_toggled_total",
		Help:      "Like toggles by resulting state.",
	}, []string{"result"})

	bookmarksToggled = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "webapp",
		Name:      "bookmarks_toggled_total",
		Help:      "Bookmark toggles by resulting state.",
	}, []string{"result"})
)

func result(on bool, yes, no string) string {
	if on {
		return yes
	}

	return no
}
