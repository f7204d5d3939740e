package util

import "testing"

func TestMustParseUint(t *testing.T) {
	tests := []struct {
		input string
		want  uint
	}{
		{"42", 42},
		{"0", 0},
		{"", 0},
		{"abc", 0},
		{"-1", 0},
	}

	for _, tt := range tests {
		if got := MustParseUint(tt.input); got != tt.want {
			t.Errorf("MustParseUint(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseIntDefault(t *testing.T) {
	tests := []struct {
		input string
		def   int
		want  int
	}{
		{"15", 20, 15},
		{"", 20, 20},
		{"abc", 20, 20},
		{"-5", 20, -5},
		{"0", 20, 0},
	}

	for _, tt := range tests {
		if got := ParseIntDefault(tt.input, tt.def); got != tt.want {
			t.Errorf("ParseIntDefault(%q, %d) = %d, want %d", tt.input, tt.def, got, tt.want)
		}
	}
}
