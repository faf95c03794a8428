// Package version knows which release of sdl is running and whether a newer
// one has been published.
package version

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/util"
	"github.com/sdl-cli/sdl/where"
)

const releasesURL = "https://api.github.com/repos/sdl-cli/sdl/releases/latest"

var latestCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest published release, without the "v" prefix.
// The GitHub API is asked at most once a day; in between the cached answer
// is served.
func Latest() (string, error) {
	cached, expired, err := latestCacher.Get()
	if err == nil && !expired && cached != "" {
		return cached, nil
	}

	resp, err := http.Get(releasesURL)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if err := network.EnsureSuccess(resp); err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" {
		return "", errors.New("release has no tag name")
	}

	_ = latestCacher.Set(latest)
	return latest, nil
}
