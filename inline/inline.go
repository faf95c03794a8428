// Package inline implements the non-interactive listing mode used for
// scripting: one series enumerated to the output as text or JSON.
package inline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/sdl-cli/sdl/internal/cache"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/site"
)

// Options configure one listing run.
type Options struct {
	// Out receives the rendered listing; nil means stdout.
	Out io.Writer
	// Session carries the listing requests; nil builds one from the
	// configuration.
	Session *network.Session
	// Ref names the series to enumerate.
	Ref *site.Ref
	// Json switches from the text listing to the JSON document.
	Json bool
	// Variants additionally fetches each episode's language variants,
	// at the cost of one throttled page request per episode.
	Variants bool
}

// Run enumerates the series and writes the listing.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	session := options.Session
	if session == nil {
		var err error
		if session, err = network.FromConfig(); err != nil {
			return err
		}
	}

	entry, err := load(ctx, session, options.Ref)
	if err != nil {
		return err
	}

	output := fromEntry(entry)
	if options.Variants {
		attachVariants(ctx, session, entry, output)
	}

	if options.Json {
		return json.NewEncoder(options.Out).Encode(output)
	}

	return writeText(options.Out, output)
}

// load returns the series tree, reusing a fresh cached listing when one
// exists.
func load(ctx context.Context, s *network.Session, ref *site.Ref) (*site.Entry, error) {
	if entry, ok := cache.Get(ref.SeriesURL()).Get(); ok {
		return entry, nil
	}

	entry, err := site.Enumerate(ctx, s, ref)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(entry); err != nil {
		log.Warnf("failed to cache series listing: %s", err)
	}
	return entry, nil
}

// attachVariants fills in episode titles and language variants. A failing
// episode page costs that episode its variants, nothing more.
func attachVariants(ctx context.Context, s *network.Session, entry *site.Entry, output *Output) {
	for i, season := range entry.Seasons {
		for j, ep := range season.Episodes {
			if ctx.Err() != nil {
				return
			}

			page, err := site.Variants(ctx, s, ep)
			if err != nil {
				log.Warnf("failed to load variants of %s: %s", ep.URL(), err)
				continue
			}

			episode := output.Seasons[i].Episodes[j]
			episode.Title = page.Title
			episode.Variants = fromOptions(page.Options)
		}
	}
}

func writeText(out io.Writer, output *Output) error {
	if _, err := fmt.Fprintf(out, "%s\n%s\n", output.Title, output.URL); err != nil {
		return err
	}

	for _, season := range output.Seasons {
		name := fmt.Sprintf("Season %d", season.Index)
		if season.Movies {
			name = "Movies"
		}
		if _, err := fmt.Fprintf(out, "\n%s: %d\n", name, len(season.Episodes)); err != nil {
			return err
		}

		for _, episode := range season.Episodes {
			line := fmt.Sprintf("  %d\t%s", episode.Index, episode.URL)
			if len(episode.Variants) > 0 {
				labels := lo.Map(episode.Variants, func(v *Variant, _ int) string {
					return v.Label
				})
				line += "\t[" + strings.Join(labels, " ") + "]"
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
	}
	return nil
}
