package extract

import (
	"context"
	"errors"
	"regexp"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// vidmoly reads the playlist URL straight out of the jwplayer setup of
// vidmoly.to embeds.
type vidmoly struct{}

var vidmolyFileRe = regexp.MustCompile(`(?s)file:\s*"([^"]+\.m3u8[^"]*)"`)

func (vidmoly) Name() string { return "vidmoly" }

func (vidmoly) Probe(rawURL string) bool {
	return hostWithPath(rawURL, []string{"vidmoly.to"}, true, true)
}

func (vidmoly) Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error) {
	page, err := src.Text(ctx, s)
	if err != nil {
		return nil, err
	}

	m := vidmolyFileRe.FindStringSubmatch(page)
	if m == nil {
		return nil, errors.New("no playlist url in embed page")
	}
	d := media.New(m[1], "https://vidmoly.to/")
	return &d, nil
}
