// Package media describes resolved video sources handed from extractors to
// the download pipeline.
package media

import (
	"net/url"
	"strings"
)

// Kind tells the pipeline how to fetch a source.
type Kind int

const (
	// Direct sources are single files fetched with ranged GETs.
	Direct Kind = iota
	// HLS sources are playlists that expand into ordered segment lists.
	HLS
)

func (k Kind) String() string {
	if k == HLS {
		return "hls"
	}
	return "direct"
}

// Descriptor is a playable source. Referer and Headers carry whatever the
// hosting provider requires to serve the media.
type Descriptor struct {
	Kind    Kind
	URL     string
	Referer string
	Headers map[string]string
}

// New classifies rawURL and builds a descriptor for it.
func New(rawURL, referer string) Descriptor {
	return Descriptor{
		Kind:    DetectKind(rawURL),
		URL:     rawURL,
		Referer: referer,
	}
}

// DetectKind classifies a URL by its final path segment.
func DetectKind(rawURL string) Kind {
	if IsHLSURL(rawURL) {
		return HLS
	}
	return Direct
}

// IsHLSURL reports whether the last path segment names a playlist. The
// segment must be longer than the extension itself, so a bare ".m3u8" does
// not count.
func IsHLSURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	segments := strings.Split(u.Path, "/")
	last := strings.ToLower(segments[len(segments)-1])
	for _, ext := range []string{".m3u8", ".m3u"} {
		if strings.HasSuffix(last, ext) && len(last) != len(ext) {
			return true
		}
	}
	return false
}
