package smartbroker

import (
	"fmt"
	"strconv"
	"strings"
)

// The portal renders every figure in the German locale: "." groups
// thousands, "," separates decimals, and gains carry a leading "+".

// ParseDecimal converts a German locale decimal string to a float64.
// It returns a *ParseError when the residual string is not a valid decimal
// literal; a corrupted financial figure must never be silently defaulted.
func ParseDecimal(s string) (float64, error) {
	t := strings.TrimSpace(s)
	t = strings.ReplaceAll(t, ".", "")
	t = strings.ReplaceAll(t, ",", ".")
	t = strings.TrimPrefix(t, "+")
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, &ParseError{Page: "numeric field", Detail: fmt.Sprintf("%q is not a decimal number", s), Err: err}
	}
	return v, nil
}

// FormatDecimal renders v back in the portal's locale with the given number
// of decimal places. It is the inverse of ParseDecimal for rendering and
// round-trip testing.
func FormatDecimal(v float64, places int) string {
	s := strconv.FormatFloat(v, 'f', places, 64)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	// group the integer digits by three, from the right
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".")
	if hasFrac {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}
