package textutil

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Apple ", "apple"},
		{"Café", "cafe"},
		{"ＷＯＲＤ", "word"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Fold(tt.in); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLettersOnly(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"apple!!", "apple"},
		{"  don't  ", "don't"},
		{"well-known.", "well-known"},
		{"give   up", "give up"},
		{"r2d2", "rd"},
		{"--", ""},
	}
	for _, tt := range tests {
		if got := LettersOnly(tt.in); got != tt.want {
			t.Errorf("LettersOnly(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeList(t *testing.T) {
	got := SanitizeList([]string{" a  big\tdog ", "", "A big dog", "cat", "  ", "bird", "fish"}, 3)
	want := []string{"a big dog", "cat", "bird"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeList() = %v, want %v", got, want)
	}
	if got := SanitizeList(nil, 6); len(got) != 0 {
		t.Errorf("SanitizeList(nil) = %v, want empty", got)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"recieve", "receive", 2},
		{"kitten", "sitting", 3},
		{"word", "word", 0},
		{"wrod", "word", 2},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"  unit 3: animals/pets.csv ": "unit 3- animals-pets.csv",
		"what?<now>|\"x\"":             "whatnowx",
		"   ":                          "",
	}
	for in, want := range tests {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
