// Package extract resolves hosting-provider embed pages into playable media
// descriptors. Every provider implements the Extractor interface; the
// registry fixes the order in which providers are tried when no explicit
// preference narrows them down.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// ErrUnknownExtractor is returned when a name matches no registered
// extractor.
var ErrUnknownExtractor = errors.New("unknown extractor")

// ErrNoExtractorSucceeded is returned when every candidate failed to
// resolve an episode's hosting options.
var ErrNoExtractorSucceeded = errors.New("no extractor succeeded")

// ErrSourceNotSupported is returned by extractors that cannot work from a
// pre-fetched page and need the embed URL itself.
var ErrSourceNotSupported = errors.New("page source is not supported")

// Source is one extraction input: the embed URL, the page that linked to
// it, and the page text when the caller has already fetched it.
type Source struct {
	URL     string
	Referer string
	Body    string
}

// Text returns the embed page text, fetching URL on demand.
func (src Source) Text(ctx context.Context, s *network.Session) (string, error) {
	if src.Body != "" {
		return src.Body, nil
	}
	if src.URL == "" {
		return "", errors.New("no embed url to fetch")
	}
	return s.Text(ctx, network.Request{URL: src.URL, Referer: src.Referer})
}

// Extractor resolves one hosting provider's embed pages into media
// descriptors.
type Extractor interface {
	// Name is the registry identifier.
	Name() string
	// Probe reports whether rawURL looks like an embed URL of this
	// provider. It never touches the network. Providers without a stable
	// URL pattern always report false and are reachable by name only.
	Probe(rawURL string) bool
	// Resolve turns src into a playable descriptor.
	Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error)
}

// registry lists every extractor in default dispatch order.
var registry = []Extractor{
	doodstream{},
	dummy{},
	filemoon{},
	loadx{},
	speedfiles{},
	streamtape{},
	vidmoly{},
	vidoza{},
	vidplay{},
	voe{},
}

// aliases maps alternative hoster labels onto registry names.
var aliases = map[string]string{
	"mycloud": "vidplay",
}

// All returns the registered extractors in default dispatch order.
func All() []Extractor {
	return registry
}

// Names returns the registry identifiers in default dispatch order.
func Names() []string {
	return lo.Map(registry, func(e Extractor, _ int) string {
		return e.Name()
	})
}

// Normalize canonicalizes an extractor name or hoster label for lookups.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name)
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// Get finds an extractor by name or alias.
func Get(name string) (Extractor, error) {
	normalized := Normalize(name)
	for _, e := range registry {
		if e.Name() == normalized {
			return e, nil
		}
	}

	closest := lo.MinBy(Names(), func(a string, b string) bool {
		return levenshtein.Distance(normalized, a) < levenshtein.Distance(normalized, b)
	})
	return nil, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownExtractor, name, closest)
}

// Match probes rawURL against the registry and returns the first extractor
// claiming it.
func Match(rawURL string) (Extractor, bool) {
	for _, e := range registry {
		if e.Probe(rawURL) {
			return e, true
		}
	}
	return nil, false
}
