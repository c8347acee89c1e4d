package smartbroker

import (
	"math"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "thousands and decimals", input: "1.234,56", want: 1234.56},
		{name: "negative", input: "-12,3", want: -12.3},
		{name: "explicit plus", input: "+0,50", want: 0.50},
		{name: "millions", input: "1.234.567,89", want: 1234567.89},
		{name: "integer only", input: "42", want: 42},
		{name: "surrounding whitespace", input: "  7,5 ", want: 7.5},
		{name: "zero", input: "0,00", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if err != nil {
				t.Fatalf("ParseDecimal(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimal(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimalInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "12,34,56", "-", "1.2.3,4,5"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDecimal(input)
			if err == nil {
				t.Fatalf("ParseDecimal(%q) expected an error", input)
			}
			if !IsParseError(err) {
				t.Errorf("ParseDecimal(%q) error is %T, want *ParseError", input, err)
			}
		})
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		value  float64
		places int
		want   string
	}{
		{1234.56, 2, "1.234,56"},
		{-12.3, 1, "-12,3"},
		{0.5, 2, "0,50"},
		{1234567.89, 2, "1.234.567,89"},
		{1000, 0, "1.000"},
		{-1234567.8, 1, "-1.234.567,8"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDecimal(tt.value, tt.places); got != tt.want {
				t.Errorf("FormatDecimal(%v, %d) = %q, want %q", tt.value, tt.places, got, tt.want)
			}
		})
	}
}

// Formatting a parsed value and parsing it again must preserve the value.
func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{"1.234,56", "-987.654,321", "+0,50", "12,000000001", "3.000.000,00"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := ParseDecimal(input)
			if err != nil {
				t.Fatal(err)
			}
			again, err := ParseDecimal(FormatDecimal(v, 9))
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(again-v) > 1e-9 {
				t.Errorf("round trip drifted: %v -> %v", v, again)
			}
		})
	}
}
