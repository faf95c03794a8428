package site

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/samber/mo"
)

// streamURLRe recognizes series, season and episode URLs of the supported
// sites. Movie listings use the dedicated "filme"/"film-N" path forms.
var streamURLRe = regexp.MustCompile(
	`(?i)^https?://(?:www\.)?(?:(aniworld)\.to/anime|(s)\.to/serie|(serienstream)\.to/serie)/stream/([^/\s]+)(?:/(?:(?:staffel-([1-9][0-9]*)(?:/(?:episode-([1-9][0-9]*)/?)?)?)|(?:(filme)(?:/(?:film-([1-9][0-9]*)/?)?)?))?)?$`)

// Ref is a parsed series URL: the matched site, the series slug, and the
// optional season/episode narrowing the URL carries. Season 0 stands for
// the movie listing.
type Ref struct {
	Site    *Site
	Slug    string
	Season  mo.Option[int]
	Episode mo.Option[int]

	base string
}

// ParseURL matches rawURL against the registered sites.
func ParseURL(rawURL string) (*Ref, error) {
	m := streamURLRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}

	ref := &Ref{Slug: m[4]}
	switch {
	case m[1] != "":
		ref.Site = aniworld
		ref.base = "https://aniworld.to/anime/stream"
	case m[2] != "":
		ref.Site = serienstream
		ref.base = "https://s.to/serie/stream"
	default:
		ref.Site = serienstream
		ref.base = "https://serienstream.to/serie/stream"
	}

	switch {
	case m[5] != "":
		season, err := parseIndex(m[5])
		if err != nil {
			return nil, err
		}
		ref.Season = mo.Some(season)
		if m[6] != "" {
			episode, err := parseIndex(m[6])
			if err != nil {
				return nil, err
			}
			ref.Episode = mo.Some(episode)
		}
	case m[7] != "":
		ref.Season = mo.Some(0)
		if m[8] != "" {
			episode, err := parseIndex(m[8])
			if err != nil {
				return nil, err
			}
			ref.Episode = mo.Some(episode)
		}
	}
	return ref, nil
}

// parseIndex converts digits already vetted by the URL pattern; only
// overflow can fail here.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q is out of range", ErrUnsupportedURL, s)
	}
	return n, nil
}

// SeriesURL returns the canonical series page URL.
func (r *Ref) SeriesURL() string {
	return r.base + "/" + r.Slug
}

// SeasonURL returns the listing URL of one season.
func (r *Ref) SeasonURL(season int) string {
	if season == 0 {
		return r.SeriesURL() + "/filme"
	}
	return fmt.Sprintf("%s/staffel-%d", r.SeriesURL(), season)
}

// EpisodeURL returns the page URL of one episode.
func (r *Ref) EpisodeURL(season, episode int) string {
	if season == 0 {
		return fmt.Sprintf("%s/film-%d", r.SeasonURL(season), episode)
	}
	return fmt.Sprintf("%s/episode-%d", r.SeasonURL(season), episode)
}

func (r *Ref) String() string {
	if season, ok := r.Season.Get(); ok {
		if episode, ok := r.Episode.Get(); ok {
			return r.EpisodeURL(season, episode)
		}
		return r.SeasonURL(season)
	}
	return r.SeriesURL()
}
