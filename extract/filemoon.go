package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// filemoon unpacks the obfuscated player script of filemoon.sx embeds.
type filemoon struct{}

var (
	filemoonScriptRe = regexp.MustCompile(`(?s)<script\s+[^>]*?data-cfasync="false"[^>]*>(.+?)</script>`)
	filemoonFileRe   = regexp.MustCompile(`file:"([^"]+)"`)
)

func (filemoon) Name() string { return "filemoon" }

func (filemoon) Probe(rawURL string) bool {
	return hostWithPath(rawURL, []string{"filemoon.sx"}, true, true)
}

func (filemoon) Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error) {
	page, err := src.Text(ctx, s)
	if err != nil {
		return nil, err
	}

	for _, script := range filemoonScriptRe.FindAllStringSubmatch(page, -1) {
		content := strings.TrimSpace(script[1])
		if !strings.HasPrefix(content, "eval(") {
			continue
		}
		decoded, ok := decodePacked(content)
		if !ok {
			continue
		}
		if m := filemoonFileRe.FindStringSubmatch(decoded); m != nil {
			d := media.New(m[1], "")
			return &d, nil
		}
	}

	return nil, errors.New("no packed player script in embed page")
}
