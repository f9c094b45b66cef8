package presentation

import "testing"

func TestParseScorePrefix(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"72/100", 72, true},
		{" 5 /100", 5, true},
		{"100", 100, true},
		{"N/A", 0, false},
		{"abc/100", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseScorePrefix(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseScorePrefix(%q) = %d, %v; want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseDigits(t *testing.T) {
	if got, ok := ParseDigits("128 BPM"); !ok || got != 128 {
		t.Fatalf("expected 128, got %d (%v)", got, ok)
	}
	if _, ok := ParseDigits("N/A"); ok {
		t.Fatalf("expected no digits in N/A")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 100) != 0 || Clamp(101, 0, 100) != 100 || Clamp(42, 0, 100) != 42 {
		t.Fatal("clamp out of bounds")
	}
}
