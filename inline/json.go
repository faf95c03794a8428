package inline

import (
	"github.com/samber/lo"

	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/site"
)

// Output is the machine-readable form of one enumerated series. The list
// command serves its JSON schema for consumers that want to validate.
type Output struct {
	URL     string    `json:"url" jsonschema:"description=Canonical series page URL."`
	Site    string    `json:"site" jsonschema:"description=Name of the site that served the listing."`
	Title   string    `json:"title" jsonschema:"description=Series title as listed."`
	Seasons []*Season `json:"seasons" jsonschema:"description=Seasons in listing order."`
}

// Season is one season block of the listing.
type Season struct {
	Index    int        `json:"index" jsonschema:"description=Season number. 0 stands for the movie listing."`
	Movies   bool       `json:"movies" jsonschema:"description=True for the movie listing."`
	URL      string     `json:"url" jsonschema:"description=Season listing URL."`
	Episodes []*Episode `json:"episodes" jsonschema:"description=Episodes in ascending order."`
}

// Episode is one listed episode.
type Episode struct {
	Index    int        `json:"index" jsonschema:"description=Episode number within its season."`
	URL      string     `json:"url" jsonschema:"description=Episode page URL."`
	Title    string     `json:"title,omitempty" jsonschema:"description=Episode title, known once variants were fetched."`
	Variants []*Variant `json:"variants,omitempty" jsonschema:"description=Language variants, present when requested."`
}

// Variant is one language option of an episode.
type Variant struct {
	Label    string   `json:"label" jsonschema:"description=Display label such as GerDub or EngSub."`
	Type     string   `json:"type" jsonschema:"description=Dub, Sub or Raw."`
	Language string   `json:"language,omitempty" jsonschema:"description=Audio or subtitle language. Raw carries none."`
	Hosters  []Hoster `json:"hosters" jsonschema:"description=Hosting options in page order."`
}

// Hoster is one hosting option of a variant.
type Hoster struct {
	Name string `json:"name" jsonschema:"description=Hoster label as listed."`
	URL  string `json:"url" jsonschema:"description=Site redirect leading to the hoster embed."`
}

func fromEntry(entry *site.Entry) *Output {
	return &Output{
		URL:   entry.URL,
		Site:  entry.Ref.Site.Name,
		Title: entry.Title,
		Seasons: lo.Map(entry.Seasons, func(season *site.Season, _ int) *Season {
			return &Season{
				Index:  season.Index,
				Movies: season.Movies(),
				URL:    entry.Ref.SeasonURL(season.Index),
				Episodes: lo.Map(season.Episodes, func(ep *site.Episode, _ int) *Episode {
					return &Episode{
						Index: ep.Index,
						URL:   ep.URL(),
						Title: ep.Title,
					}
				}),
			}
		}),
	}
}

func fromOptions(options []site.Option) []*Variant {
	return lo.Map(options, func(option site.Option, _ int) *Variant {
		variant := &Variant{
			Label: option.Variant.String(),
			Type:  option.Variant.Kind.String(),
			Hosters: lo.Map(option.Handles, func(handle extract.Handle, _ int) Hoster {
				return Hoster{Name: handle.Label, URL: handle.URL}
			}),
		}
		if language, ok := option.Variant.LanguageOf(); ok {
			variant.Language = language.Long()
		}
		return variant
	})
}
