package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// baseNAlphabet is the digit set of p.a.c.k.e.r's base-N word encoding.
const baseNAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	packedRe     = regexp.MustCompile(`}\('(.+)',(\d+),(\d+),'([^']+)'\.split\('\|'\)`)
	packedWordRe = regexp.MustCompile(`\b(\w+)\b`)
)

// decodePacked reverses Dean Edwards' p.a.c.k.e.r obfuscation. Words in
// the payload are radix-encoded indices into the symbol list; empty
// symbols keep the word itself.
func decodePacked(code string) (string, bool) {
	m := packedRe.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}

	payload := m[1]
	radix, err := strconv.Atoi(m[2])
	if err != nil || radix < 2 || radix > len(baseNAlphabet) {
		return "", false
	}
	count, err := strconv.Atoi(m[3])
	if err != nil {
		return "", false
	}
	symbols := strings.Split(m[4], "|")
	if count > len(symbols) {
		return "", false
	}

	table := make(map[string]string, count)
	for i := 0; i < count; i++ {
		word := encodeBaseN(uint64(i), radix)
		if symbols[i] != "" {
			table[word] = symbols[i]
		} else {
			table[word] = word
		}
	}

	complete := true
	decoded := packedWordRe.ReplaceAllStringFunc(payload, func(word string) string {
		replacement, known := table[word]
		if !known {
			complete = false
			return word
		}
		return replacement
	})
	if !complete {
		return "", false
	}
	return decoded, true
}

// encodeBaseN renders num in the given radix using the packer digit set.
func encodeBaseN(num uint64, radix int) string {
	if num == 0 {
		return baseNAlphabet[:1]
	}

	var digits []byte
	for num > 0 {
		digits = append(digits, baseNAlphabet[num%uint64(radix)])
		num /= uint64(radix)
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// caesar shifts every alphabet rune of input by shift positions, wrapping
// around in both directions. Runes outside the alphabet pass through.
func caesar(input string, alphabet string, shift int) string {
	letters := []rune(alphabet)
	n := len(letters)
	shifted := []rune(input)

	for i, r := range shifted {
		idx := -1
		for j, letter := range letters {
			if letter == r {
				idx = j
				break
			}
		}
		if idx < 0 {
			continue
		}

		pos := (idx + shift) % n
		if pos < 0 {
			pos += n
		}
		shifted[i] = letters[pos]
	}
	return string(shifted)
}

// rot47 applies the caesar cipher over the printable ASCII range.
func rot47(input string) string {
	var ascii strings.Builder
	for c := byte('!'); c <= byte('~'); c++ {
		ascii.WriteByte(c)
	}
	return caesar(input, ascii.String(), 47)
}
