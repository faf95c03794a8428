// Package history keeps a persistent record of finished downloads, so a
// later run can show what was fetched and where it went.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/where"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns all recorded downloads keyed by series, episode and variant.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns the recorded downloads, most recent first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	slices.SortFunc(records, func(a, b *Record) int {
		return b.FinishedAt.Compare(a.FinishedAt)
	})
	return records, nil
}

// Save adds a finished download to the registry, unless the user opted out
// of history collection.
func Save(record *Record) error {
	if !viper.GetBool(key.HistorySaveOnDownload) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now()
	}
	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Clear wipes every recorded download.
func Clear() error {
	return cacher.Set(make(map[string]*Record))
}
