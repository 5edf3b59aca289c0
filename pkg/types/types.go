package types

// AspectRatio is one of the aspect ratios accepted by the generation backend.
type AspectRatio string

// Supported generation aspect ratios.
const (
	RatioSquare     AspectRatio = "1:1"
	RatioPortrait   AspectRatio = "3:4"
	RatioLandscape  AspectRatio = "4:3"
	RatioStory      AspectRatio = "9:16"
	RatioWidescreen AspectRatio = "16:9"
)

// Ratios returns all supported generation aspect ratios.
func Ratios() []AspectRatio {
	return []AspectRatio{RatioSquare, RatioPortrait, RatioLandscape, RatioStory, RatioWidescreen}
}

// Valid reports whether r is a supported aspect ratio.
func (r AspectRatio) Valid() bool {
	switch r {
	case RatioSquare, RatioPortrait, RatioLandscape, RatioStory, RatioWidescreen:
		return true
	}
	return false
}

// Dimensions returns the pixel dimensions requested from the generation
// backend for this ratio.
func (r AspectRatio) Dimensions() (width, height int) {
	switch r {
	case RatioPortrait:
		return 768, 1024
	case RatioLandscape:
		return 1024, 768
	case RatioStory:
		return 720, 1280
	case RatioWidescreen:
		return 1280, 720
	default: // 1:1
		return 1024, 1024
	}
}

// Displayed holds the on-screen dimensions of a rendered image, which may
// differ from the native pixel dimensions of the decoded bitmap.
type Displayed struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Region is a crop rectangle expressed in displayed coordinate space.
// The unit is whatever the displayed dimensions use, as long as both agree.
type Region struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the region has zero area, which signals that no
// crop selection was made.
func (r Region) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Within reports whether the region lies inside the displayed bounds.
func (r Region) Within(d Displayed) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.Width >= 0 && r.Height >= 0 &&
		r.X+r.Width <= d.Width &&
		r.Y+r.Height <= d.Height
}
