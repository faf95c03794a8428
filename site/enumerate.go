package site

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sdl-cli/sdl/browser"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/network"
)

// Enumerate builds the entry tree for ref: the season list from the series
// page, the episode count of each season from its listing page. Seasons the
// site lists but whose pages cannot be read come back empty rather than
// failing the entry.
func Enumerate(ctx context.Context, s *network.Session, ref *Ref) (*Entry, error) {
	doc, err := fetchDocument(ctx, s, ref.SeriesURL())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnumeration, err)
	}

	title := strings.TrimSpace(doc.Find(".series-title > h1 > span").First().Text())
	if title == "" {
		return nil, fmt.Errorf("%w: no series title at %s", ErrEnumeration, ref.SeriesURL())
	}

	entry := &Entry{
		URL:         ref.SeriesURL(),
		Title:       title,
		Description: strings.TrimSpace(doc.Find("p[data-full-description]").First().AttrOr("data-full-description", "")),
		Ref:         ref,
	}

	hasMovies, maxSeason := seasonNav(doc)
	if maxSeason == 0 {
		return nil, fmt.Errorf("%w: no seasons listed at %s", ErrEnumeration, ref.SeriesURL())
	}

	first := 1
	if hasMovies {
		first = 0
	}
	for index := first; index <= maxSeason; index++ {
		season := &Season{Index: index, Entry: entry}
		count := seasonEpisodeCount(ctx, s, ref, index)
		for episode := 1; episode <= count; episode++ {
			season.Episodes = append(season.Episodes, &Episode{Index: episode, Season: season})
		}
		entry.Seasons = append(entry.Seasons, season)
	}
	return entry, nil
}

// seasonNav reads the stream navigation of a series page: whether a movie
// listing exists and the highest numbered season.
func seasonNav(doc *goquery.Document) (hasMovies bool, maxSeason int) {
	doc.Find("#stream > ul:first-of-type > li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if strings.EqualFold(text, "Filme") {
			hasMovies = true
			return
		}
		if number, err := strconv.Atoi(text); err == nil && number > maxSeason {
			maxSeason = number
		}
	})
	return hasMovies, maxSeason
}

// seasonEpisodeCount fetches a season's listing page and returns its
// highest numbered episode. A missing or unreadable page counts as zero
// episodes.
func seasonEpisodeCount(ctx context.Context, s *network.Session, ref *Ref, season int) int {
	doc, err := fetchDocument(ctx, s, ref.SeasonURL(season))
	if err != nil {
		log.Warnf("season %d of %s is not readable: %s", season, ref.Slug, err)
		return 0
	}

	max := 0
	doc.Find("li > a[data-episode-id]").Each(func(_ int, sel *goquery.Selection) {
		number, err := strconv.Atoi(strings.TrimSpace(sel.Text()))
		if err != nil {
			return
		}
		if number > max {
			max = number
		}
	})
	return max
}

// challengeMarkers identify the interstitial pages protection layers serve
// instead of content.
var challengeMarkers = []string{
	"DDoS-Guard",
	"Just a moment...",
	"cf-browser-verification",
	"Checking your browser",
}

func looksChallenged(page string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(page, marker) {
			return true
		}
	}
	return false
}

// fetchDocument loads a site page. A challenge interstitial is retried once
// through the browser; when that is not possible the challenge is reported
// as the fetch error.
func fetchDocument(ctx context.Context, s *network.Session, rawURL string) (*goquery.Document, error) {
	page, err := s.Text(ctx, network.Request{URL: rawURL})
	if err != nil {
		return nil, err
	}

	if looksChallenged(page) {
		log.Infof("challenge page at %s, retrying through the browser", rawURL)
		rendered, browserErr := browser.PageHTML(ctx, rawURL)
		if browserErr != nil {
			log.Warnf("browser retry failed: %s", browserErr)
			return nil, fmt.Errorf("%s is gated by a challenge page", rawURL)
		}
		page = rendered
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}
