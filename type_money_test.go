package smartbroker

import "testing"

func TestMoneyString(t *testing.T) {
	if got := M(1234.56, "EUR").String(); got != "€1,234.56" {
		t.Errorf("String() = %q", got)
	}
}

func TestMoneySignedString(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{50, "+€50.00"},
		{-50, "-€50.00"},
		{0, "-"},
	}
	for _, tt := range tests {
		if got := M(tt.value, "EUR").SignedString(); got != tt.want {
			t.Errorf("M(%v).SignedString() = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestMoneyAdd(t *testing.T) {
	sum := M(0, "").Add(M(10500, "EUR")).Add(M(1250.5, "EUR"))
	if !sum.Equal(M(11750.5, "EUR")) {
		t.Errorf("sum = %v", sum)
	}
	if sum.Currency() != "EUR" {
		t.Errorf("weak currency not adopted: %q", sum.Currency())
	}
}

func TestPercentStrings(t *testing.T) {
	if got := Percent(5).String(); got != "5.00%" {
		t.Errorf("String() = %q", got)
	}
	if got := Percent(5).SignedString(); got != "+5.00%" {
		t.Errorf("SignedString() = %q", got)
	}
	if got := Percent(-2.5).SignedString(); got != "-2.50%" {
		t.Errorf("SignedString() = %q", got)
	}
	if got := Percent(0).SignedString(); got != "-" {
		t.Errorf("zero SignedString() = %q", got)
	}
	if !Percent(5).Equal(Percent(5.00001)) {
		t.Error("Equal must tolerate float noise")
	}
}
