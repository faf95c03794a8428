package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// speedfiles peels the layered encoding speedfiles.net wraps its download
// URL in. Every base64-looking script variable is a candidate; the first
// one surviving the full pipeline wins.
type speedfiles struct{}

var speedfilesVarRe = regexp.MustCompile(`(?:var|let|const) \w+ = ["']((?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{4}|[A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{2}={2}))["'];`)

func (speedfiles) Name() string { return "speedfiles" }

func (speedfiles) Probe(rawURL string) bool {
	return hostWithPath(rawURL, []string{"speedfiles.net"}, true, false)
}

func (speedfiles) Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error) {
	page, err := src.Text(ctx, s)
	if err != nil {
		return nil, err
	}

	for _, m := range speedfilesVarRe.FindAllStringSubmatch(page, -1) {
		if target, ok := speedfilesDecode(m[1]); ok {
			d := media.New(target, "")
			return &d, nil
		}
	}
	return nil, errors.New("no decodable player variable in embed page")
}

// speedfilesDecode runs the candidate through base64, case-swapped
// reversals and a shifted hex stage. Only a candidate decoding to a
// well-formed URL counts.
func speedfilesDecode(encoded string) (string, bool) {
	step, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	step, err = base64.StdEncoding.DecodeString(string(speedfilesSwapReverse(step)))
	if err != nil {
		return "", false
	}
	for i, j := 0, len(step)-1; i < j; i, j = i+1, j-1 {
		step[i], step[j] = step[j], step[i]
	}

	var shifted []byte
	for i := 0; i < len(step); i += 2 {
		end := i + 2
		if end > len(step) {
			end = len(step)
		}
		v, err := strconv.ParseUint(string(step[i:end]), 16, 8)
		if err != nil || v < 3 {
			return "", false
		}
		shifted = append(shifted, byte(v-3))
	}

	target, err := base64.StdEncoding.DecodeString(string(speedfilesSwapReverse(shifted)))
	if err != nil || !utf8.Valid(target) {
		return "", false
	}

	u, err := url.Parse(string(target))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return string(target), true
}

func speedfilesSwapReverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			c ^= 0x20
		}
		out[len(b)-1-i] = c
	}
	return out
}
