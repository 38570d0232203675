package models

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches a French-formatted euro amount as rendered by the
// configurator: "2 690,00 €", "0,00 €", "129 487,00 €". Thousand groups
// may be separated by a space, a no-break space, a narrow no-break space
// or a dot; decimals follow a comma. The decimal part is optional so
// "1 500 €" also matches.
var priceRe = regexp.MustCompile(`(\d{1,3}(?:[ \x{00a0}\x{202f}.]\d{3})*|\d+)(?:,(\d{2}))?\s*€`)

// ParsePrice parses a single French euro amount. The whole string must be
// a price (surrounding whitespace allowed).
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	m := priceRe.FindStringSubmatch(s)
	if m == nil || m[0] != s {
		return 0, false
	}
	return assemble(m), true
}

// FindPrice scans free text for the first euro amount and returns it.
// Used by the proximity strategy on leaf text that may carry labels
// around the number.
func FindPrice(s string) (float64, bool) {
	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return assemble(m), true
}

func assemble(m []string) float64 {
	whole := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m[1])
	v, _ := strconv.ParseFloat(whole, 64)
	if m[2] != "" {
		cents, _ := strconv.ParseFloat(m[2], 64)
		v += cents / 100
	}
	return v
}

// FormatPrice renders a price the way the configurator does, for log
// lines and debug output.
func FormatPrice(v float64) string {
	cents := int64(v*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return strings.Join(groups, " ") + "," + twoDigits(frac) + " €"
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
