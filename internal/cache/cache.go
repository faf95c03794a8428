// Package cache keeps enumerated season and episode trees between runs, so
// repeated invocations against the same series skip the listing requests.
package cache

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/site"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/viper"
)

// record pairs a stored tree with the moment it was enumerated. Freshness is
// tracked per series, not per file, so one stale series does not throw away
// the others.
type record struct {
	SavedAt time.Time   `json:"saved_at"`
	Entry   *site.Entry `json:"entry"`
}

type seriesData struct {
	Series map[string]*record `json:"series"`
}

var mu sync.Mutex

var cacher = gache.New[*seriesData](
	&gache.Options{
		Path:       filepath.Join(where.Cache(), "series.json"),
		FileSystem: &filesystem.GacheFs{},
	},
)

// ttl returns the configured freshness window. Zero disables the cache.
func ttl() time.Duration {
	return time.Duration(viper.GetInt(key.CacheSeriesTTL)) * time.Minute
}

// Get returns the cached tree for a series URL when a fresh one exists. The
// tree comes back with its parent pointers restored.
func Get(url string) mo.Option[*site.Entry] {
	lifetime := ttl()
	if lifetime <= 0 {
		return mo.None[*site.Entry]()
	}

	mu.Lock()
	defer mu.Unlock()

	data, _, err := cacher.Get()
	if err != nil || data == nil {
		return mo.None[*site.Entry]()
	}

	rec, ok := data.Series[url]
	if !ok || rec.Entry == nil || time.Since(rec.SavedAt) > lifetime {
		return mo.None[*site.Entry]()
	}

	if err := rec.Entry.Relink(); err != nil {
		log.Warnf("dropping unusable series cache entry for %s: %s", url, err)
		return mo.None[*site.Entry]()
	}

	return mo.Some(rec.Entry)
}

// Set stores an enumerated tree for reuse by later runs. Entries past their
// freshness window are pruned on the way out.
func Set(entry *site.Entry) error {
	lifetime := ttl()
	if lifetime <= 0 {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	data, _, err := cacher.Get()
	if err != nil || data == nil || data.Series == nil {
		data = &seriesData{Series: make(map[string]*record)}
	}

	for url, rec := range data.Series {
		if time.Since(rec.SavedAt) > lifetime {
			delete(data.Series, url)
		}
	}

	data.Series[entry.URL] = &record{SavedAt: time.Now(), Entry: entry}
	return cacher.Set(data)
}
