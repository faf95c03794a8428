package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Compare orders two semantic version strings. It returns 1 when a is newer
// than b, -1 when it is older and 0 when both name the same release.
func Compare(a, b string) (int, error) {
	parse := func(s string) (parts [3]int, err error) {
		_, err = fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &parts[0], &parts[1], &parts[2])
		if err != nil {
			err = fmt.Errorf("failed to parse version %q: %w", s, err)
		}
		return parts, err
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range lo.Zip2(av[:], bv[:]) {
		if pair.A > pair.B {
			return 1, nil
		}

		if pair.A < pair.B {
			return -1, nil
		}
	}

	return 0, nil
}
