// Package instaframe turns arbitrary photos, or AI-generated images, into
// square canvases ready for social-media posting.
//
// Each input is decoded, optionally cropped from an on-screen selection,
// then centered on a padded square canvas with a solid background. Results
// are held in an ordered gallery whose entries can be re-cropped
// independently.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/instaframe/instaframe"
//	)
//
//	func main() {
//		frame := instaframe.New()
//
//		raw, err := os.ReadFile("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		entries, err := frame.Ingest(context.Background(), [][]byte{raw})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// entries[0].Formatted holds the 1080x1080 PNG
//		if err := os.WriteFile(instaframe.Filename(0), entries[0].Formatted, 0o644); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Compositor (pkg/compositor): fits a bitmap onto a padded square canvas
// 2. Cropper (pkg/cropper): maps on-screen crop selections to native pixels
// 3. Gallery (pkg/gallery): the ordered collection and pipeline orchestrator
// 4. Generation (pkg/client, pkg/sdwebui): the remote image generation boundary
//
// The compositor preserves the source aspect ratio exactly and leaves a
// uniform border on the constrained axis, so nothing ever touches the
// canvas edge. The crop transform works on displayed coordinates and
// corrects for the displayed-to-native scale before extracting pixels 1:1.
package instaframe

import (
	"context"
	"image"

	"github.com/instaframe/instaframe/pkg/client"
	"github.com/instaframe/instaframe/pkg/compositor"
	"github.com/instaframe/instaframe/pkg/gallery"
	"github.com/instaframe/instaframe/pkg/processing"
	"github.com/instaframe/instaframe/pkg/types"
)

// Version of the instaframe library
const Version = "1.0.0"

// Instaframe provides a high-level interface for the square-format pipeline
type Instaframe struct {
	gallery    *gallery.Gallery
	compositor *compositor.Compositor
	processor  *processing.Processor
}

// New creates a new Instaframe with default configuration
func New() *Instaframe {
	return NewWithConfig(compositor.New().Config())
}

// NewWithConfig creates a new Instaframe with a custom compositor configuration
func NewWithConfig(compositorConfig compositor.Config) *Instaframe {
	comp := compositor.NewWithConfig(compositorConfig)
	return &Instaframe{
		gallery:    gallery.NewWithCompositor(comp),
		compositor: comp,
		processor:  processing.NewProcessor(),
	}
}

// SetGenerator sets the remote image generation backend
func (f *Instaframe) SetGenerator(g client.Generator) {
	f.gallery.SetGenerator(g)
}

// Ingest decodes and composes a batch of raw image inputs. The batch is
// all-or-nothing: one bad input fails the whole batch.
func (f *Instaframe) Ingest(ctx context.Context, inputs [][]byte) ([]gallery.Entry, error) {
	return f.gallery.Ingest(ctx, inputs)
}

// Generate requests an AI image for the prompt and adds it to the gallery
func (f *Instaframe) Generate(ctx context.Context, prompt string, ratio types.AspectRatio) (gallery.Entry, error) {
	return f.gallery.Generate(ctx, prompt, ratio)
}

// ApplyCrop re-crops one entry from an on-screen selection and recomposes it
func (f *Instaframe) ApplyCrop(id string, displayed types.Displayed, region types.Region) (gallery.Entry, error) {
	return f.gallery.ApplyCrop(id, displayed, region)
}

// Entries returns the processed images in arrival order
func (f *Instaframe) Entries() []gallery.Entry {
	return f.gallery.Entries()
}

// Len returns the number of gallery entries
func (f *Instaframe) Len() int {
	return f.gallery.Len()
}

// Clear empties the gallery
func (f *Instaframe) Clear() {
	f.gallery.Clear()
}

// DataURI returns the entry's formatted PNG as a data URI
func (f *Instaframe) DataURI(entry gallery.Entry) string {
	return f.processor.DataURI(entry.Formatted)
}

// Compose runs the compositor alone on an already-decoded bitmap
func (f *Instaframe) Compose(img image.Image) ([]byte, error) {
	out, err := f.compositor.Compose(img)
	if err != nil {
		return nil, err
	}
	return f.processor.EncodePNG(out)
}

// Filename returns the deterministic download filename for the entry at the
// given zero-based position
func Filename(index int) string {
	return gallery.Filename(index)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
