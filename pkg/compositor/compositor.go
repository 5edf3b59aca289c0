package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/instaframe/instaframe/pkg/types"
)

// Default compositing parameters used by the pipeline.
const (
	DefaultCanvasSize = 1080
	DefaultPadding    = 0.9
)

// Compositor fits an arbitrary-aspect-ratio bitmap onto a square canvas,
// centered and uniformly padded, without distorting the source.
type Compositor struct {
	config Config
}

// Config holds configuration for the compositor.
type Config struct {
	// CanvasSize is the side length of the square output canvas in pixels.
	CanvasSize int
	// Padding is the fraction of the canvas the source may occupy on its
	// constrained axis, in (0,1]. 0.9 leaves a 10% border.
	Padding float64
	// Background fills all canvas area not covered by the source.
	Background color.Color
}

// New creates a new Compositor with default configuration.
func New() *Compositor {
	return &Compositor{
		config: Config{
			CanvasSize: DefaultCanvasSize,
			Padding:    DefaultPadding,
			Background: color.White,
		},
	}
}

// NewWithConfig creates a new Compositor with custom configuration.
func NewWithConfig(config Config) *Compositor {
	if config.Background == nil {
		config.Background = color.White
	}
	return &Compositor{config: config}
}

// Config returns the compositor's configuration.
func (c *Compositor) Config() Config {
	return c.config
}

// Placement describes where the scaled source is drawn on the canvas,
// kept in float precision so the geometry is exact before rasterization.
type Placement struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Rect rounds the placement to whole pixels for drawing. Extreme aspect
// ratios that round below one pixel still draw a one-pixel line.
func (p Placement) Rect() image.Rectangle {
	x := int(math.Round(p.X))
	y := int(math.Round(p.Y))
	w := int(math.Round(p.Width))
	h := int(math.Round(p.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Rect(x, y, x+w, y+h)
}

// PlacementFor computes the centered, padded draw geometry for a source of
// the given native dimensions. The constrained axis spans canvasSize*padding
// and the other axis follows from the source aspect ratio, so the source
// never touches the canvas edge and is never distorted.
func PlacementFor(srcWidth, srcHeight, canvasSize int, padding float64) Placement {
	aspect := float64(srcWidth) / float64(srcHeight)
	size := float64(canvasSize)

	var drawWidth, drawHeight float64
	if aspect > 1 {
		drawWidth = size * padding
		drawHeight = drawWidth / aspect
	} else {
		drawHeight = size * padding
		drawWidth = drawHeight * aspect
	}

	return Placement{
		X:      (size - drawWidth) / 2,
		Y:      (size - drawHeight) / 2,
		Width:  drawWidth,
		Height: drawHeight,
	}
}

// Compose draws src scaled and centered onto a fresh square canvas and
// returns the canvas. The output is always exactly CanvasSize x CanvasSize.
// Each call allocates its own canvas, so concurrent composes never share a
// drawing surface.
func (c *Compositor) Compose(src image.Image) (image.Image, error) {
	if c.config.CanvasSize <= 0 {
		return nil, fmt.Errorf("canvas size %d: %w", c.config.CanvasSize, types.ErrCanvasUnavailable)
	}
	if c.config.Padding <= 0 || c.config.Padding > 1 {
		return nil, fmt.Errorf("padding %g outside (0,1]: %w", c.config.Padding, types.ErrCanvasUnavailable)
	}

	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("zero-size source bitmap: %w", types.ErrDecode)
	}

	placement := PlacementFor(bounds.Dx(), bounds.Dy(), c.config.CanvasSize, c.config.Padding)
	rect := placement.Rect()

	scaled := imaging.Resize(src, rect.Dx(), rect.Dy(), imaging.Lanczos)
	canvas := imaging.New(c.config.CanvasSize, c.config.CanvasSize, c.config.Background)

	return imaging.Paste(canvas, scaled, rect.Min), nil
}
