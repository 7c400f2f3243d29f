package wirecraft

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	testCases := []struct {
		input string
		want  color.NRGBA
		ok    bool
	}{
		{"#0000ff", color.NRGBA{0, 0, 255, 255}, true},
		{"#00ff0099", color.NRGBA{0, 255, 0, 0x99}, true},
		{"#FFFFFF", color.NRGBA{255, 255, 255, 255}, true},
		{"lime", color.NRGBA{0, 255, 0, 255}, true},
		{" White ", color.NRGBA{255, 255, 255, 255}, true},
		{"#fff", color.NRGBA{}, false},
		{"#gg0000", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
		{"chartreuse-ish", color.NRGBA{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseColor(tc.input)
			if (err == nil) != tc.ok {
				t.Fatalf("ParseColor(%q) err = %v", tc.input, err)
			}
			if tc.ok && got != tc.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFormatColor(t *testing.T) {
	for _, s := range []string{"#0000ff", "#00ff0099", "#123456"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := FormatColor(c); got != s {
			t.Errorf("FormatColor(ParseColor(%q)) = %q", s, got)
		}
	}
}
