package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
	"github.com/spf13/viper"
)

// Handle is one hosting option of an episode: the hoster label shown on
// the site and the redirect URL leading to the embed page.
type Handle struct {
	Label   string
	URL     string
	Referer string
}

// Wildcard stands for every extractor not named elsewhere in a priority
// list.
const Wildcard = "*"

// Priority is an ordered extractor preference. Entries are registry names;
// a single Wildcard entry expands to all remaining extractors in registry
// order.
type Priority []string

// ParsePriority validates a raw preference list.
func ParsePriority(names []string) (Priority, error) {
	p := make(Priority, 0, len(names))
	seenWildcard := false
	for _, name := range names {
		if name == Wildcard {
			if seenWildcard {
				return nil, fmt.Errorf("extractor priority may name %s only once", Wildcard)
			}
			seenWildcard = true
			p = append(p, Wildcard)
			continue
		}
		e, err := Get(name)
		if err != nil {
			return nil, err
		}
		p = append(p, e.Name())
	}
	return p, nil
}

// PriorityFromConfig reads the configured extractor preference.
func PriorityFromConfig() (Priority, error) {
	return ParsePriority(viper.GetStringSlice(key.ExtractorsPriority))
}

// expand resolves the priority into a concrete extractor order. A nil or
// empty priority means registry order; a wildcard entry expands to every
// extractor not named explicitly, keeping registry order.
func (p Priority) expand() []Extractor {
	if len(p) == 0 {
		return All()
	}

	named := make(map[string]struct{}, len(p))
	for _, name := range p {
		if name != Wildcard {
			named[name] = struct{}{}
		}
	}

	ordered := make([]Extractor, 0, len(registry))
	for _, name := range p {
		if name == Wildcard {
			for _, e := range registry {
				if _, ok := named[e.Name()]; !ok {
					ordered = append(ordered, e)
				}
			}
			continue
		}

		e, _ := Get(name)
		ordered = append(ordered, e)
	}
	return ordered
}

// Dispatch tries the episode's hosting options against the preferred
// extractors and returns the first descriptor that resolves. Candidates
// are ordered extractor-major: every handle of the most preferred
// extractor comes before any handle of the next one. Individual failures
// are logged and collected; only full exhaustion surfaces an error.
func Dispatch(ctx context.Context, s *network.Session, handles []Handle, priority Priority) (*media.Descriptor, error) {
	byName := make(map[string][]Handle, len(handles))
	for _, h := range handles {
		name := Normalize(h.Label)
		byName[name] = append(byName[name], h)
	}

	type candidate struct {
		extractor Extractor
		handle    Handle
	}
	var candidates []candidate
	for _, e := range priority.expand() {
		matched := byName[e.Name()]
		delete(byName, e.Name())
		for _, h := range matched {
			candidates = append(candidates, candidate{extractor: e, handle: h})
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no hosting option matches a preferred extractor", ErrNoExtractorSucceeded)
	}

	var merr *multierror.Error
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		descriptor, err := resolveHandle(ctx, s, c.extractor, c.handle)
		if err != nil {
			log.Warnf("extractor %s failed for %s: %s", c.extractor.Name(), c.handle.URL, err)
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", c.extractor.Name(), err))
			continue
		}
		return descriptor, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrNoExtractorSucceeded, merr)
}

// resolveHandle follows the hoster redirect once and hands the final
// embed page to the extractor.
func resolveHandle(ctx context.Context, s *network.Session, e Extractor, h Handle) (*media.Descriptor, error) {
	resp, err := s.Get(ctx, h.URL, h.Referer)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err = network.EnsureSuccess(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	src := Source{
		URL:     resp.Request.URL.String(),
		Referer: h.Referer,
		Body:    string(body),
	}
	return e.Resolve(ctx, s, src)
}

// DispatchURL resolves a bare embed URL outside any site context. With an
// explicit name the chosen extractor runs unconditionally; otherwise the
// registry is probed for a match.
func DispatchURL(ctx context.Context, s *network.Session, rawURL string, name string) (*media.Descriptor, error) {
	var (
		e   Extractor
		err error
	)
	if name != "" {
		e, err = Get(name)
		if err != nil {
			return nil, err
		}
	} else {
		var ok bool
		e, ok = Match(rawURL)
		if !ok {
			return nil, fmt.Errorf("%w: no extractor recognizes %s", ErrNoExtractorSucceeded, rawURL)
		}
	}

	return e.Resolve(ctx, s, Source{URL: rawURL})
}
