package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// dummy passes URLs that already point at a playable file through
// unchanged.
type dummy struct{}

var directExtensions = []string{".mp4", ".m3u8", ".m3u", ".ts"}

func (dummy) Name() string { return "dummy" }

func (dummy) Probe(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}

	path := strings.ToLower(u.Path)
	for _, ext := range directExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (dummy) Resolve(_ context.Context, _ *network.Session, src Source) (*media.Descriptor, error) {
	if src.URL == "" {
		return nil, ErrSourceNotSupported
	}
	d := media.New(src.URL, src.Referer)
	return &d, nil
}
