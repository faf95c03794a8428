package extract

import (
	"net/url"
	"strings"
)

// hostWithPath reports whether rawURL points at one of the given hosts and
// carries a non-empty path. Providers serve embeds from bare hostnames, so
// credentials or explicit ports disqualify a URL, and https is always
// accepted while plain http and a www prefix are per-provider choices.
func hostWithPath(rawURL string, hosts []string, allowHTTP bool, allowWWW bool) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	switch u.Scheme {
	case "https":
	case "http":
		if !allowHTTP {
			return false
		}
	default:
		return false
	}

	if u.User != nil || u.Port() != "" {
		return false
	}

	host := u.Hostname()
	if allowWWW {
		host = strings.TrimPrefix(host, "www.")
	}
	if strings.TrimPrefix(u.Path, "/") == "" {
		return false
	}

	for _, h := range hosts {
		if strings.EqualFold(host, h) {
			return true
		}
	}
	return false
}
