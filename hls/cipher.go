package hls

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/sdl-cli/sdl/network"
)

// keyCache fetches every distinct key URI once per assembly. The lock
// also collapses concurrent first fetches of the same URI.
type keyCache struct {
	session *network.Session
	referer string
	headers map[string]string
	retry   Retrier

	mu   sync.Mutex
	keys map[string][]byte
}

func newKeyCache(session *network.Session, referer string, headers map[string]string, retry Retrier) *keyCache {
	return &keyCache{
		session: session,
		referer: referer,
		headers: headers,
		retry:   retry,
		keys:    make(map[string][]byte),
	}
}

func (c *keyCache) get(ctx context.Context, uri string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.keys[uri]; ok {
		return key, nil
	}

	var data []byte
	err := c.retry(ctx, func(ctx context.Context) error {
		var fetchErr error
		data, fetchErr = c.session.Bytes(ctx, network.Request{
			URL:     uri,
			Referer: c.referer,
			Headers: c.headers,
		})
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: could not fetch key: %s", ErrCipher, err)
	}
	if len(data) != 16 {
		return nil, fmt.Errorf("%w: key at %s is %d bytes, want 16", ErrCipher, uri, len(data))
	}

	c.keys[uri] = data
	return data, nil
}

// segmentIV derives the CBC initialization vector: the key's hex
// attribute when present, otherwise the segment's sequence number as a
// big-endian 128-bit value.
func segmentIV(key *Key, index uint64) ([16]byte, error) {
	var iv [16]byte
	if key.IV == "" {
		binary.BigEndian.PutUint64(iv[8:], index)
		return iv, nil
	}

	text, ok := strings.CutPrefix(key.IV, "0x")
	if !ok {
		text, ok = strings.CutPrefix(key.IV, "0X")
	}
	if !ok {
		return iv, fmt.Errorf("%w: iv %q is not hexadecimal", ErrCipher, key.IV)
	}
	value, ok := new(big.Int).SetString(text, 16)
	if !ok || value.Sign() < 0 || value.BitLen() > 128 {
		return iv, fmt.Errorf("%w: iv %q does not fit 128 bits", ErrCipher, key.IV)
	}
	value.FillBytes(iv[:])
	return iv, nil
}

// decryptSegment reverses AES-128-CBC in place and strips the PKCS#7
// padding.
func decryptSegment(key []byte, iv [16]byte, data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is not block aligned", ErrCipher, len(data))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCipher, err)
	}
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(data, data)

	padding := int(data[len(data)-1])
	if padding < 1 || padding > aes.BlockSize || padding > len(data) {
		return nil, fmt.Errorf("%w: malformed padding", ErrCipher)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("%w: malformed padding", ErrCipher)
		}
	}
	return data[:len(data)-padding], nil
}
