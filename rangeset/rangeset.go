// Package rangeset parses and evaluates episode selection expressions such as "1,4-6,9".
//
// A set is stored as a normalized list of inclusive intervals: sorted,
// non-overlapping, with adjacent intervals merged. The keyword "all" (or an
// empty expression) selects everything.
package rangeset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrParse marks selection expressions that cannot be understood.
var ErrParse = errors.New("invalid selection")

// Range is an inclusive interval of episode numbers.
type Range struct {
	Start uint32
	End   uint32
}

// Set is a normalized collection of inclusive ranges.
type Set struct {
	ranges []Range
}

// All returns the set selecting every episode.
func All() Set {
	return Set{ranges: []Range{{Start: 1, End: math.MaxUint32}}}
}

// Single returns a set selecting exactly one episode.
func Single(n uint32) Set {
	return Set{ranges: []Range{{Start: n, End: n}}}
}

// Parse interprets a selection expression. The keyword "all" selects
// everything; otherwise spaces are stripped, parts are separated by commas,
// and each part is either a single number or an inclusive "start-end" range.
// Numbers start at 1.
func Parse(expr string) (Set, error) {
	if strings.EqualFold(expr, "all") {
		return All(), nil
	}

	var ranges []Range
	for _, part := range strings.Split(strings.ReplaceAll(expr, " ", ""), ",") {
		if begin, end, found := strings.Cut(part, "-"); found {
			start, err := parseNumber(begin)
			if err != nil {
				return Set{}, fmt.Errorf("failed to parse %q as integer in range %q: %w", begin, part, ErrParse)
			}
			stop, err := parseNumber(end)
			if err != nil {
				return Set{}, fmt.Errorf("failed to parse %q as integer in range %q: %w", end, part, ErrParse)
			}
			if start < 1 {
				return Set{}, fmt.Errorf("range has to start with at least 1: %q: %w", part, ErrParse)
			}
			if start > stop {
				return Set{}, fmt.Errorf("range start cannot be bigger than range end: %q: %w", part, ErrParse)
			}
			ranges = append(ranges, Range{Start: start, End: stop})
			continue
		}

		n, err := parseNumber(part)
		if err != nil {
			return Set{}, fmt.Errorf("failed to parse %q as integer: %w", part, ErrParse)
		}
		if n < 1 {
			return Set{}, fmt.Errorf("episode number has to be at least 1: %q: %w", part, ErrParse)
		}
		ranges = append(ranges, Range{Start: n, End: n})
	}

	return Set{ranges: normalize(ranges)}, nil
}

// parseNumber reserves the topmost 32-bit value for the open upper bound of All.
func parseNumber(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n >= math.MaxUint32 {
		return 0, strconv.ErrRange
	}
	return uint32(n), nil
}

// normalize sorts the intervals and merges overlapping or adjacent ones.
func normalize(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})

	merged := []Range{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		// Adjacent counts as mergeable: 1-3 followed by 4-6 collapses.
		if last.End == math.MaxUint32 || r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// IsAll reports whether the set selects every possible episode.
func (s Set) IsAll() bool {
	return len(s.ranges) == 1 && s.ranges[0].Start == 1 && s.ranges[0].End == math.MaxUint32
}

// Contains reports set membership via binary search over the intervals.
func (s Set) Contains(n uint32) bool {
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].End >= n
	})
	return i < len(s.ranges) && s.ranges[i].Start <= n
}

// Ranges returns the normalized intervals in ascending order.
func (s Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Values returns the ascending members of the set that do not exceed max.
func (s Set) Values(max uint32) []uint32 {
	var out []uint32
	for _, r := range s.ranges {
		if r.Start > max {
			break
		}
		end := r.End
		if end > max {
			end = max
		}
		for n := r.Start; n <= end; n++ {
			out = append(out, n)
			if n == math.MaxUint32 {
				break
			}
		}
	}
	return out
}

// Min returns the smallest member of the set, or 0 for an empty set.
func (s Set) Min() uint32 {
	if len(s.ranges) == 0 {
		return 0
	}
	return s.ranges[0].Start
}

// String renders the canonical form of the set, or "all" for the full set.
func (s Set) String() string {
	if s.IsAll() {
		return "all"
	}

	parts := make([]string, 0, len(s.ranges))
	for _, r := range s.ranges {
		if r.Start == r.End {
			parts = append(parts, strconv.FormatUint(uint64(r.Start), 10))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d-%d", r.Start, r.End))
	}
	return strings.Join(parts, ",")
}
