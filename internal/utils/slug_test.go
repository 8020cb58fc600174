package util

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Python for Beginners", "python-for-beginners"},
		{"  Go: Advanced Concurrency!  ", "go-advanced-concurrency"},
		{"already-slugged", "already-slugged"},
		{"Trailing punctuation...", "trailing-punctuation"},
		{"", ""},
		{"---", ""},
		{"C++ 101", "c-101"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
