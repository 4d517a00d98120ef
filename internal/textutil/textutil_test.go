package textutil

import "testing"

func TestContainsLetter(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Hello", true},
		{"Привіт", true},
		{"їжак", true},
		{"123 - 456", false},
		{"你好", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ContainsLetter(tt.in); got != tt.want {
			t.Errorf("ContainsLetter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsDigits(t *testing.T) {
	if !IsDigits("0042") {
		t.Error("IsDigits(\"0042\") = false")
	}
	if IsDigits("") || IsDigits("12a") || IsDigits("1 2") {
		t.Error("IsDigits accepted a non-digit string")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Привіт, світ", 6); got != "Привіт..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestHashParts(t *testing.T) {
	if HashParts("a", "bc") == HashParts("ab", "c") {
		t.Error("HashParts must separate parts")
	}
	if len(Hash("x")) != 64 {
		t.Errorf("unexpected hash length %d", len(Hash("x")))
	}
}

func TestCountStats(t *testing.T) {
	got := CountStats("one two\nthree")
	want := Stats{Words: 3, Chars: 13, Lines: 2}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
