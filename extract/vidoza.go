package extract

import (
	"context"
	"errors"
	"regexp"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// vidoza reads the first sourcesCode entry of vidoza.net embed pages.
type vidoza struct{}

var vidozaSrcRe = regexp.MustCompile(`(?s)sourcesCode:\s\[\{\ssrc:\s"(.+)", type`)

func (vidoza) Name() string { return "vidoza" }

func (vidoza) Probe(rawURL string) bool {
	return hostWithPath(rawURL, []string{"vidoza.net"}, true, true)
}

func (vidoza) Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error) {
	page, err := src.Text(ctx, s)
	if err != nil {
		return nil, err
	}

	m := vidozaSrcRe.FindStringSubmatch(page)
	if m == nil {
		return nil, errors.New("no sourcesCode entry in embed page")
	}
	d := media.New(m[1], "")
	return &d, nil
}
