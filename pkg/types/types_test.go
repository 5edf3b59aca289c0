package types

import "testing"

func TestAspectRatioValid(t *testing.T) {
	for _, r := range Ratios() {
		if !r.Valid() {
			t.Errorf("Ratio %s should be valid", r)
		}
	}

	for _, r := range []AspectRatio{"", "2:1", "16:10", "square"} {
		if r.Valid() {
			t.Errorf("Ratio %q should be invalid", r)
		}
	}
}

func TestAspectRatioDimensions(t *testing.T) {
	cases := map[AspectRatio][2]int{
		RatioSquare:     {1024, 1024},
		RatioPortrait:   {768, 1024},
		RatioLandscape:  {1024, 768},
		RatioStory:      {720, 1280},
		RatioWidescreen: {1280, 720},
	}

	for ratio, want := range cases {
		w, h := ratio.Dimensions()
		if w != want[0] || h != want[1] {
			t.Errorf("%s: expected %dx%d, got %dx%d", ratio, want[0], want[1], w, h)
		}
	}
}

func TestRegionWithin(t *testing.T) {
	d := Displayed{Width: 200, Height: 100}

	valid := []Region{
		{X: 0, Y: 0, Width: 200, Height: 100},
		{X: 10, Y: 10, Width: 50, Height: 50},
		{X: 0, Y: 0, Width: 0, Height: 0},
	}
	for _, r := range valid {
		if !r.Within(d) {
			t.Errorf("Region %+v should be within %+v", r, d)
		}
	}

	invalid := []Region{
		{X: -1, Y: 0, Width: 50, Height: 50},
		{X: 0, Y: 0, Width: 201, Height: 50},
		{X: 151, Y: 0, Width: 50, Height: 50},
		{X: 0, Y: 51, Width: 50, Height: 50},
		{X: 0, Y: 0, Width: 50, Height: -1},
	}
	for _, r := range invalid {
		if r.Within(d) {
			t.Errorf("Region %+v should not be within %+v", r, d)
		}
	}
}
