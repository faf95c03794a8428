// Package site turns a streaming-site entry URL into a tree of seasons,
// episodes and language variants, and yields the hosting-provider handles
// the extractors resolve.
package site

import (
	"errors"

	"github.com/sdl-cli/sdl/lang"
)

// ErrUnsupportedURL is returned when no registered site recognizes a URL.
var ErrUnsupportedURL = errors.New("unsupported url")

// ErrEnumeration marks listing pages that are unreachable or unparseable.
// It is fatal for the whole entry.
var ErrEnumeration = errors.New("site enumeration failed")

// ErrSeasonNotFound is returned when a requested season is not listed by the
// site. A listed season with zero episodes is not an error.
var ErrSeasonNotFound = errors.New("season not found")

// Site describes one supported streaming site.
type Site struct {
	Name     string
	Category lang.Category
}

var (
	aniworld     = &Site{Name: "aniworld", Category: lang.GermanAnime}
	serienstream = &Site{Name: "s.to", Category: lang.GermanGeneral}
)

// Sites lists the supported sites.
func Sites() []*Site {
	return []*Site{aniworld, serienstream}
}

func (s *Site) String() string {
	return s.Name
}
