package tradegate

import (
	"fmt"
	"strconv"
	"strings"
)

// ISINFromWKN derives the German ISIN for a 6-character WKN: country code
// "DE", three zero padding characters, the WKN, and the ISO 6166 check
// digit.
func ISINFromWKN(wkn string) (string, error) {
	wkn = strings.ToUpper(strings.TrimSpace(wkn))
	if len(wkn) != 6 {
		return "", fmt.Errorf("invalid wkn %q: want 6 characters", wkn)
	}
	base := "DE000" + wkn
	digit, err := checkDigit(base)
	if err != nil {
		return "", fmt.Errorf("invalid wkn %q: %w", wkn, err)
	}
	return base + digit, nil
}

// checkDigit computes the ISO 6166 check digit: letters expand to two
// digits (A=10 .. Z=35), then the Luhn sum runs over the digit string with
// the rightmost digit doubled.
func checkDigit(base string) (string, error) {
	var digits []int
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			digits = append(digits, v/10, v%10)
		default:
			return "", fmt.Errorf("character %q not allowed", r)
		}
	}

	sum := 0
	double := true
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return strconv.Itoa((10 - sum%10) % 10), nil
}
