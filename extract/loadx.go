package extract

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// loadx digs the FirePlayer hash out of loadx.ws embeds and trades it for
// the stream URL at the player endpoint.
type loadx struct{}

var (
	loadxEvalRe       = regexp.MustCompile(`(?s)(eval\(function\(p,a,c,k,e,d\).+?)</script>`)
	loadxFirePlayerRe = regexp.MustCompile(`FirePlayer\(\s*"([^"]+)"`)
)

func (loadx) Name() string { return "loadx" }

func (loadx) Probe(rawURL string) bool {
	return hostWithPath(rawURL, []string{"loadx.ws"}, true, false)
}

func loadxPlayerID(page string) (string, bool) {
	for _, m := range loadxEvalRe.FindAllStringSubmatch(page, -1) {
		decoded, ok := decodePacked(strings.TrimSpace(m[1]))
		if !ok {
			continue
		}
		if id := loadxFirePlayerRe.FindStringSubmatch(decoded); id != nil {
			return id[1], true
		}
	}
	return "", false
}

func (loadx) Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error) {
	page, err := src.Text(ctx, s)
	if err != nil {
		return nil, err
	}
	id, ok := loadxPlayerID(page)
	if !ok {
		return nil, errors.New("no FirePlayer hash in embed page")
	}

	var payload struct {
		VideoSource string `json:"videoSource"`
	}
	err = s.JSON(ctx, network.Request{
		Method: http.MethodPost,
		URL:    "https://loadx.ws/player/index.php?data=" + id + "&do=getVideo",
		Body:   "hash=" + id + "&r=",
		Headers: map[string]string{
			"X-Requested-With": "XMLHttpRequest",
			"Content-Type":     "application/x-www-form-urlencoded",
		},
	}, &payload)
	if err != nil {
		return nil, err
	}
	if payload.VideoSource == "" {
		return nil, errors.New("player response carries no videoSource")
	}

	d := media.New(payload.VideoSource, "")
	return &d, nil
}
