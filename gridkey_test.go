package wirecraft

import (
	"errors"
	"testing"
)

func TestParseGridKey(t *testing.T) {
	testCases := []struct {
		input string
		want  GridKey
		ok    bool
	}{
		{"0,0,0", GridKey{0, 0, 0}, true},
		{"1,-2,3", GridKey{1, -2, 3}, true},
		{"-10,200,-3000", GridKey{-10, 200, -3000}, true},
		{"1, 2, 3", GridKey{}, false},
		{" 1,2,3", GridKey{}, false},
		{"+1,2,3", GridKey{}, false},
		{"01,2,3", GridKey{}, false},
		{"-0,0,0", GridKey{}, false},
		{"1.0,2,3", GridKey{}, false},
		{"1,2", GridKey{}, false},
		{"1,2,3,4", GridKey{}, false},
		{"", GridKey{}, false},
		{"a,b,c", GridKey{}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseGridKey(tc.input)
			if tc.ok {
				if err != nil || got != tc.want {
					t.Errorf("ParseGridKey(%q) = %v, %v; want %v", tc.input, got, err, tc.want)
				}
				return
			}
			if !errors.Is(err, ErrMalformedKey) {
				t.Errorf("ParseGridKey(%q) err = %v, want ErrMalformedKey", tc.input, err)
			}
		})
	}
}

func TestGridKeyStringRoundTrip(t *testing.T) {
	for _, k := range []GridKey{{0, 0, 0}, {-1, 5, -7}, {123, -456, 789}} {
		got, err := ParseGridKey(k.String())
		if err != nil || got != k {
			t.Errorf("round trip of %v gave %v, %v", k, got, err)
		}
	}
}

func TestGridKeyOrigin(t *testing.T) {
	if got := (GridKey{1, -2, 3}).Origin(); got != (Vector3{100, -200, 300}) {
		t.Errorf("Origin = %v", got)
	}
}
