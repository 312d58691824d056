package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"us national", "(415) 555-2671", "US", "+14155552671"},
		{"lowercase region", "(415) 555-2671", "us", "+14155552671"},
		{"padded region", "(415) 555-2671", " us ", "+14155552671"},
		{"already e164", "+31612345678", "US", "+31612345678"},
		{"whitespace trimmed", "  +31612345678  ", "US", "+31612345678"},
		{"unparseable returns input", "not a number", "US", "not a number"},
		{"empty stays empty", "   ", "US", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input, tc.region); got != tc.want {
				t.Fatalf("NormalizeE164(%q, %q) = %q, want %q", tc.input, tc.region, got, tc.want)
			}
		})
	}
}
