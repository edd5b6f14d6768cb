package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "inline tags", in: "<p>Hello <em>world</em></p>", want: "Hello world"},
		{name: "script dropped", in: "a<script>var x = '<b>';</script>b", want: "ab"},
		{name: "style dropped", in: "<style>p{}</style>text", want: "text"},
		{name: "comment dropped", in: "x<!-- note -->y", want: "xy"},
		{name: "entities decoded", in: "Fish &amp; Chips", want: "Fish & Chips"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripTags(tc.in))
		})
	}
}

func TestTrimWords(t *testing.T) {
	long := strings.Repeat("word ", 25)

	got := TrimWords(long, 20)
	assert.True(t, strings.HasSuffix(got, Ellipsis))
	assert.Len(t, strings.Fields(strings.TrimSuffix(got, Ellipsis)), 20)

	assert.Equal(t, "short text", TrimWords("<p>short   text</p>", 20))
}
