package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.01", true}, // half-up rounding
		{"1.004", "1", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.004", "", false}, // rounds to zero
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"inr", "INR", true},
		{" eur ", "EUR", true},
		{"USD", "USD", true},
		{"us", "", false},
		{"usdd", "", false},
		{"u5d", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeCurrency(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	cases := []string{"0.01", "1", "12.34", "99999.99"}
	for _, c := range cases {
		d, err := ParseAmount(c)
		if err != nil {
			t.Fatalf("%q parse: %v", c, err)
		}
		if back := FromCents(Cents(d)); !back.Equal(d) {
			t.Fatalf("%q round-tripped to %s", c, back)
		}
	}
	if got := Cents(FromCents(1234)); got != 1234 {
		t.Fatalf("expected 1234 cents, got %d", got)
	}
}
