package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go for Beginners", "go-for-beginners"},
		{"  Advanced   SQL!  ", "advanced-sql"},
		{"C++ & Rust: Systems Programming", "c-rust-systems-programming"},
		{"already-slugged", "already-slugged"},
		{"---", ""},
		{"Ünïcode Títle", "ncode-ttle"},
	}

	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
