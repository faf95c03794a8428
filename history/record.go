package history

import (
	"fmt"
	"time"
)

// Record is one finished download.
type Record struct {
	Series     string    `json:"series"`
	SeriesURL  string    `json:"series_url"`
	Season     int       `json:"season"`
	Episode    int       `json:"episode"`
	Variant    string    `json:"variant,omitempty"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	FinishedAt time.Time `json:"finished_at"`
}

// encode yields the registry key. One record per episode and variant, so a
// repeated download overwrites its predecessor instead of piling up.
func (r *Record) encode() string {
	return fmt.Sprintf("%s#%d#%d#%s", r.SeriesURL, r.Season, r.Episode, r.Variant)
}

func (r *Record) String() string {
	if r.Season == 0 {
		return fmt.Sprintf("%s Film %d [%s]", r.Series, r.Episode, r.Variant)
	}
	return fmt.Sprintf("%s S%02dE%02d [%s]", r.Series, r.Season, r.Episode, r.Variant)
}
