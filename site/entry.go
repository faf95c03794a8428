package site

import "fmt"

// Entry is the read-only tree enumerated once per run for one series.
type Entry struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Seasons     []*Season `json:"seasons"`

	Ref *Ref `json:"-"`
}

// Season is an ordered list of episodes. Index 0 is the movie listing.
type Season struct {
	Index    int        `json:"index"`
	Episodes []*Episode `json:"episodes"`

	Entry *Entry `json:"-"`
}

// Episode is one entry of a season. Title is only known once the episode
// page has been fetched.
type Episode struct {
	Index int    `json:"index"`
	Title string `json:"title,omitempty"`

	Season *Season `json:"-"`
}

// Season returns the listed season with the given index.
func (e *Entry) Season(index int) (*Season, error) {
	for _, s := range e.Seasons {
		if s.Index == index {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no season %d", ErrSeasonNotFound, e.Title, index)
}

// Relink restores the Ref and the parent pointers json leaves out. Needed
// after the tree passed through a cache.
func (e *Entry) Relink() error {
	ref, err := ParseURL(e.URL)
	if err != nil {
		return err
	}
	e.Ref = ref

	for _, season := range e.Seasons {
		season.Entry = e
		for _, episode := range season.Episodes {
			episode.Season = season
		}
	}
	return nil
}

// Movies reports whether the season is the movie listing.
func (s *Season) Movies() bool {
	return s.Index == 0
}

// MaxEpisode returns the season's highest episode index, zero for an empty
// season.
func (s *Season) MaxEpisode() int {
	max := 0
	for _, ep := range s.Episodes {
		if ep.Index > max {
			max = ep.Index
		}
	}
	return max
}

// URL returns the episode's page URL.
func (ep *Episode) URL() string {
	return ep.Season.Entry.Ref.EpisodeURL(ep.Season.Index, ep.Index)
}
