package site

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/network"
)

// Option is one language variant of an episode together with the hosting
// options the site lists for it, in page order.
type Option struct {
	Variant lang.Variant
	LangKey string
	Handles []extract.Handle
}

// EpisodePage is a parsed episode page: the display title and the available
// variants in the site's preference order.
type EpisodePage struct {
	Title   string
	Options []Option
}

// Pick returns the first option whose variant survives narrowing by the
// requested override.
func (p *EpisodePage) Pick(requested lang.Variant) (Option, bool) {
	available := make([]lang.Variant, len(p.Options))
	for i, o := range p.Options {
		available[i] = o.Variant
	}

	allowed := lang.Narrow(requested, available)
	if len(allowed) == 0 {
		return Option{}, false
	}
	for _, o := range p.Options {
		if o.Variant == allowed[0] {
			return o, true
		}
	}
	return Option{}, false
}

// Variants fetches the episode page and reads the language switcher and the
// hoster rows. Failures here are scoped to the episode, never to the entry.
func Variants(ctx context.Context, s *network.Session, ep *Episode) (*EpisodePage, error) {
	pageURL, err := url.Parse(ep.URL())
	if err != nil {
		return nil, err
	}

	doc, err := fetchDocument(ctx, s, pageURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch episode page: %w", err)
	}

	page := &EpisodePage{
		Title: strings.TrimSpace(doc.Find(".episodeGermanTitle").First().Text()),
	}
	ep.Title = page.Title

	available := switcherVariants(doc)
	for _, variant := range ep.Season.Entry.Ref.Site.Category.Preference() {
		langKey, ok := available[variant]
		if !ok {
			continue
		}
		page.Options = append(page.Options, Option{
			Variant: variant,
			LangKey: langKey,
			Handles: hosterHandles(doc, pageURL, langKey),
		})
	}
	return page, nil
}

// switcherVariants maps the language switcher images to variants keyed by
// their numeric lang key.
func switcherVariants(doc *goquery.Document) map[lang.Variant]string {
	available := make(map[lang.Variant]string)
	doc.Find("div.changeLanguageBox > img").Each(func(_ int, sel *goquery.Selection) {
		variant, ok := classifyTitle(sel.AttrOr("title", ""))
		if !ok {
			return
		}
		langKey, ok := sel.Attr("data-lang-key")
		if !ok {
			return
		}
		if _, seen := available[variant]; !seen {
			available[variant] = langKey
		}
	})
	return available
}

// classifyTitle recognizes the switcher image titles the sites use. The dub
// titles are exact names, the sub titles appear in several phrasings.
func classifyTitle(title string) (lang.Variant, bool) {
	switch {
	case title == "Deutsch":
		return lang.Variant{Kind: lang.Dub, Language: lang.German}, true
	case strings.Contains(title, "Untertitel Deutsch"), strings.Contains(title, "deutschen Untertitel"):
		return lang.Variant{Kind: lang.Sub, Language: lang.German}, true
	case title == "Englisch":
		return lang.Variant{Kind: lang.Dub, Language: lang.English}, true
	case strings.Contains(title, "Untertitel Englisch"), strings.Contains(title, "englischen Untertitel"):
		return lang.Variant{Kind: lang.Sub, Language: lang.English}, true
	}
	return lang.Variant{}, false
}

// hosterHandles collects the hosting options of one lang key: the h4 label
// and the site redirect resolved against the page URL.
func hosterHandles(doc *goquery.Document, pageURL *url.URL, langKey string) []extract.Handle {
	var handles []extract.Handle
	doc.Find(fmt.Sprintf(`.hosterSiteVideo ul li[data-lang-key=%q]`, langKey)).Each(func(_ int, sel *goquery.Selection) {
		target, ok := sel.Attr("data-link-target")
		if !ok {
			log.Trace("hoster row without data-link-target")
			return
		}
		linkURL, err := pageURL.Parse(target)
		if err != nil {
			log.Tracef("failed to parse redirect link %q: %s", target, err)
			return
		}
		handles = append(handles, extract.Handle{
			Label:   strings.TrimSpace(sel.Find("h4").First().Text()),
			URL:     linkURL.String(),
			Referer: pageURL.String(),
		})
	})
	return handles
}
