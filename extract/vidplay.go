package extract

import (
	"context"
	"crypto/rc4"
	"encoding/base64"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// vidplay resolves vidplay.online and mcloud.bz embeds. The provider
// keeps rotating its RC4 keys; a community repository tracks the current
// pair, which this extractor fetches per resolution.
type vidplay struct{}

const vidplayKeysURL = "https://raw.githubusercontent.com/KillerDogeEmpire/vidplay-keys/keys/keys.json"

var vidplayFutokenRe = regexp.MustCompile(`k='(\S+)'`)

func (vidplay) Name() string { return "vidplay" }

func (vidplay) Probe(rawURL string) bool {
	return hostWithPath(rawURL, []string{"vidplay.online", "vidplay.site", "mcloud.bz"}, false, true)
}

func (vidplay) Resolve(ctx context.Context, s *network.Session, src Source) (*media.Descriptor, error) {
	if src.URL == "" {
		return nil, ErrSourceNotSupported
	}
	embedURL, err := url.Parse(src.URL)
	if err != nil {
		return nil, err
	}

	segments := strings.Split(embedURL.Path, "/")
	id := segments[len(segments)-1]
	if id == "" {
		return nil, errors.New("embed url carries no video id")
	}

	futokenURL, err := embedURL.Parse("/futoken")
	if err != nil {
		return nil, err
	}
	futoken, err := s.Text(ctx, network.Request{URL: futokenURL.String(), Referer: src.URL})
	if err != nil {
		return nil, err
	}

	var keys []string
	if err = s.JSON(ctx, network.Request{URL: vidplayKeysURL}, &keys); err != nil {
		return nil, err
	}
	encodedID, err := vidplayEncodeID(id, keys)
	if err != nil {
		return nil, err
	}

	mediainfoURL, err := vidplayMediainfoURL(embedURL, futoken, encodedID)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Result struct {
			Sources []struct {
				File string `json:"file"`
			} `json:"sources"`
		} `json:"result"`
	}
	err = s.JSON(ctx, network.Request{
		URL:     mediainfoURL.String(),
		Referer: src.URL,
		Headers: map[string]string{
			"Accept":           "application/json, text/javascript, */*; q=0.01",
			"X-Requested-With": "XMLHttpRequest",
		},
	}, &payload)
	if err != nil {
		return nil, err
	}
	if len(payload.Result.Sources) == 0 {
		return nil, errors.New("mediainfo response carries no sources")
	}

	d := media.New(payload.Result.Sources[0].File, embedURL.Scheme+"://"+embedURL.Host)
	return &d, nil
}

// vidplayEncodeID chains RC4 over the video id with every current key and
// makes the result URL-safe.
func vidplayEncodeID(id string, keys []string) (string, error) {
	data := []byte(id)
	for _, key := range keys {
		cipher, err := rc4.NewCipher([]byte(key))
		if err != nil {
			return "", err
		}
		cipher.XORKeyStream(data, data)
	}
	return strings.ReplaceAll(base64.StdEncoding.EncodeToString(data), "/", "_"), nil
}

// vidplayMediainfoURL builds the mediainfo path from the key inside the
// futoken script and the encoded id, carrying the embed query over.
func vidplayMediainfoURL(embedURL *url.URL, futoken, encodedID string) (*url.URL, error) {
	m := vidplayFutokenRe.FindStringSubmatch(futoken)
	if m == nil {
		return nil, errors.New("no key in futoken response")
	}
	futokenKey := m[1]

	parts := make([]string, 0, len(encodedID)+1)
	parts = append(parts, futokenKey)
	for i := 0; i < len(encodedID); i++ {
		parts = append(parts, strconv.Itoa(int(futokenKey[i%len(futokenKey)])+int(encodedID[i])))
	}

	u, err := embedURL.Parse("/mediainfo/" + strings.Join(parts, ","))
	if err != nil {
		return nil, err
	}
	u.RawQuery = embedURL.RawQuery
	return u, nil
}
