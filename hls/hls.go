// Package hls expands HLS playlists into ordered segment lists and
// reassembles the segments into one contiguous media stream. Master
// playlists are narrowed to their best variant first; encrypted segments
// are decrypted during reassembly.
package hls

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

var (
	// ErrEmptyStream marks a playlist that expands to zero segments.
	ErrEmptyStream = errors.New("stream has no segments")
	// ErrCipher marks a failed key fetch or segment decryption.
	ErrCipher = errors.New("stream decryption failed")
)

// Key is the cipher protecting a run of segments. URI is absolute. An
// empty IV means the IV derives from each segment's sequence number.
type Key struct {
	Method string
	URI    string
	IV     string
}

// ByteRange narrows a segment to a slice of its resource.
type ByteRange struct {
	Length int64
	Offset int64
}

// Segment is one piece of the stream. Index is the absolute media
// sequence number, which doubles as the derived IV for encrypted
// segments without an explicit one. Key is nil for clear segments.
type Segment struct {
	URI       string
	Duration  float64
	ByteRange mo.Option[ByteRange]
	Index     uint64
	Key       *Key
}

// Stream is a materialized media playlist: every URI absolute, every
// segment annotated with the key in effect for it.
type Stream struct {
	Segments      []Segment
	Key           *Key
	MediaSequence uint64
}

// Duration sums the advertised segment durations in seconds.
func (s *Stream) Duration() float64 {
	var total float64
	for _, seg := range s.Segments {
		total += seg.Duration
	}
	return total
}

// Fetch downloads the playlist behind desc and expands it into a
// stream. A master playlist costs one extra fetch for the selected
// media playlist: the highest-bandwidth variant, first listed winning
// ties.
func Fetch(ctx context.Context, session *network.Session, desc media.Descriptor) (*Stream, error) {
	base, data, err := fetchPlaylist(ctx, session, desc, desc.URL)
	if err != nil {
		return nil, err
	}

	playlist, kind, err := m3u8.DecodeFrom(bytes.NewReader(data), false)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist at %s: %w", desc.URL, err)
	}

	var mediaPlaylist *m3u8.MediaPlaylist
	switch kind {
	case m3u8.MASTER:
		variant, err := selectVariant(playlist.(*m3u8.MasterPlaylist))
		if err != nil {
			return nil, err
		}
		variantURL, err := base.Parse(strings.TrimSpace(variant.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to build media playlist url: %w", err)
		}

		base, data, err = fetchPlaylist(ctx, session, desc, variantURL.String())
		if err != nil {
			return nil, err
		}
		nested, nestedKind, err := m3u8.DecodeFrom(bytes.NewReader(data), false)
		if err != nil || nestedKind != m3u8.MEDIA {
			return nil, fmt.Errorf("variant at %s is not a media playlist", variantURL)
		}
		mediaPlaylist = nested.(*m3u8.MediaPlaylist)
	case m3u8.MEDIA:
		mediaPlaylist = playlist.(*m3u8.MediaPlaylist)
	default:
		return nil, fmt.Errorf("could not recognize playlist at %s", desc.URL)
	}

	if mediaPlaylist.Iframe {
		return nil, fmt.Errorf("playlist at %s only carries iframe previews", base)
	}
	return materialize(base, mediaPlaylist)
}

// fetchPlaylist returns the playlist body together with the final URL
// after redirects, which later relative URIs resolve against.
func fetchPlaylist(ctx context.Context, session *network.Session, desc media.Descriptor, rawURL string) (*url.URL, []byte, error) {
	resp, err := session.Do(ctx, network.Request{
		URL:     rawURL,
		Referer: desc.Referer,
		Headers: desc.Headers,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if err := network.EnsureSuccess(resp); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read playlist: %w", err)
	}
	return resp.Request.URL, data, nil
}

// selectVariant picks the stream to download from a master playlist.
// Iframe-only entries never qualify.
func selectVariant(master *m3u8.MasterPlaylist) (*m3u8.Variant, error) {
	var best *m3u8.Variant
	for _, variant := range master.Variants {
		if variant == nil || variant.Iframe {
			continue
		}
		if best == nil || variant.Bandwidth > best.Bandwidth {
			best = variant
		}
	}
	if best == nil {
		return nil, errors.New("master playlist lists no media streams")
	}
	return best, nil
}

// materialize turns the parsed playlist into absolute segments, carrying
// the current key state forward over segments without their own key tag.
func materialize(base *url.URL, playlist *m3u8.MediaPlaylist) (*Stream, error) {
	stream := &Stream{MediaSequence: playlist.SeqNo}

	current, err := resolveKey(base, playlist.Key)
	if err != nil {
		return nil, err
	}
	stream.Key = current

	for i, seg := range playlist.Segments {
		if seg == nil {
			break
		}
		if seg.Key != nil {
			if current, err = resolveKey(base, seg.Key); err != nil {
				return nil, err
			}
			if stream.Key == nil {
				stream.Key = current
			}
		}

		segmentURL, err := base.Parse(strings.TrimSpace(seg.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to build segment url: %w", err)
		}
		segment := Segment{
			URI:      segmentURL.String(),
			Duration: seg.Duration,
			Index:    playlist.SeqNo + uint64(i),
			Key:      current,
		}
		if seg.Limit > 0 {
			segment.ByteRange = mo.Some(ByteRange{Length: seg.Limit, Offset: seg.Offset})
		}
		stream.Segments = append(stream.Segments, segment)
	}

	if len(stream.Segments) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyStream, base)
	}
	return stream, nil
}

// resolveKey maps a playlist key tag to the cipher state it establishes.
// METHOD=NONE clears the state.
func resolveKey(base *url.URL, key *m3u8.Key) (*Key, error) {
	if key == nil {
		return nil, nil
	}
	switch {
	case strings.EqualFold(key.Method, "NONE"):
		return nil, nil
	case strings.EqualFold(key.Method, "AES-128"):
	default:
		return nil, fmt.Errorf("%w: %s decryption is not supported", ErrCipher, key.Method)
	}

	if key.URI == "" {
		return nil, fmt.Errorf("%w: no key uri provided", ErrCipher)
	}
	keyURL, err := base.Parse(strings.Trim(strings.TrimSpace(key.URI), `"`))
	if err != nil {
		return nil, fmt.Errorf("%w: bad key uri: %s", ErrCipher, err)
	}
	return &Key{Method: "AES-128", URI: keyURL.String(), IV: key.IV}, nil
}
