// Package recent remembers the series URLs a user downloaded from, so the
// interactive prompt can offer them again instead of making the user paste
// them anew.
package recent

import (
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// limit caps the store; the least recently used entry falls out first.
const limit = 20

type entry struct {
	URL      string    `json:"url"`
	Title    string    `json:"title,omitempty"`
	LastUsed time.Time `json:"last_used"`
}

var cacher = gache.New[map[string]*entry](
	&gache.Options{
		Path:       where.Recent(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Remember records a series URL, refreshing its recency. The title is kept
// for nicer prompts and may be empty.
func Remember(url, title string) error {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*entry)
	}

	if existing, ok := cached[url]; ok {
		existing.LastUsed = time.Now()
		if title != "" {
			existing.Title = title
		}
	} else {
		cached[url] = &entry{URL: url, Title: title, LastUsed: time.Now()}
	}

	for len(cached) > limit {
		oldest := ""
		for u, e := range cached {
			if oldest == "" || e.LastUsed.Before(cached[oldest].LastUsed) {
				oldest = u
			}
		}
		delete(cached, oldest)
	}

	return cacher.Set(cached)
}

func sortedEntries() []*entry {
	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	entries := lo.Values(cached)
	slices.SortFunc(entries, func(a, b *entry) int {
		return b.LastUsed.Compare(a.LastUsed)
	})
	return entries
}

// URLs returns every remembered series URL, most recently used first.
func URLs() []string {
	return lo.Map(sortedEntries(), func(e *entry, _ int) string {
		return e.URL
	})
}

// Suggest returns the remembered URLs matching a partial input, most
// recently used first. An empty input matches everything. Returns nothing
// when suggestions are disabled.
func Suggest(partial string) []string {
	if !viper.GetBool(key.RecentSuggest) {
		return nil
	}

	partial = strings.TrimSpace(strings.ToLower(partial))
	if partial == "" {
		return URLs()
	}

	var matched []string
	for _, e := range sortedEntries() {
		if fuzzy.Match(partial, strings.ToLower(e.URL)) || fuzzy.Match(partial, strings.ToLower(e.Title)) {
			matched = append(matched, e.URL)
		}
	}
	return matched
}

// Clear forgets every remembered URL.
func Clear() error {
	return cacher.Set(make(map[string]*entry))
}
