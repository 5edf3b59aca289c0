package gallery

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/instaframe/instaframe/pkg/client"
	"github.com/instaframe/instaframe/pkg/compositor"
	"github.com/instaframe/instaframe/pkg/cropper"
	"github.com/instaframe/instaframe/pkg/processing"
	"github.com/instaframe/instaframe/pkg/types"
)

// Entry pairs one original bitmap (post any crop) with its current
// composited PNG output. Entries are returned by value so callers never
// observe a half-updated pair.
type Entry struct {
	// ID is a stable unique identifier, independent of position.
	ID string
	// Original is the decoded source, replaced when a crop is applied so a
	// later crop operates on the already-cropped bitmap.
	Original image.Image
	// Formatted is the PNG-encoded square output for this entry.
	Formatted []byte
}

// Gallery is the ordered, session-scoped collection of processed images and
// the orchestrator of the decode -> crop -> compose pipeline.
type Gallery struct {
	mu      sync.Mutex
	entries []*Entry

	compositor *compositor.Compositor
	cropper    *cropper.Cropper
	processor  *processing.Processor
	generator  client.Generator
}

// New creates an empty Gallery with default pipeline configuration.
func New() *Gallery {
	return NewWithCompositor(compositor.New())
}

// NewWithCompositor creates an empty Gallery using a custom compositor.
func NewWithCompositor(c *compositor.Compositor) *Gallery {
	return &Gallery{
		compositor: c,
		cropper:    cropper.New(),
		processor:  processing.NewProcessor(),
	}
}

// SetGenerator sets the remote generation backend used by Generate.
func (g *Gallery) SetGenerator(generator client.Generator) {
	g.generator = generator
}

// Ingest decodes and composes each input and appends the results in input
// order. The batch is all-or-nothing: inputs are processed concurrently,
// but a failure on any one discards the whole batch and the gallery is left
// unchanged. Each concurrent task composes onto its own private canvas.
func (g *Gallery) Ingest(ctx context.Context, inputs [][]byte) ([]Entry, error) {
	staged := make([]*Entry, len(inputs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, raw := range inputs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := g.process(raw)
			if err != nil {
				return fmt.Errorf("input %d: %w", i+1, err)
			}
			staged[i] = entry
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.entries = append(g.entries, staged...)
	g.mu.Unlock()

	result := make([]Entry, len(staged))
	for i, e := range staged {
		result[i] = *e
	}
	return result, nil
}

// process runs one input through sniff -> decode -> compose -> encode.
func (g *Gallery) process(raw []byte) (*Entry, error) {
	if err := g.processor.SniffMIME(raw); err != nil {
		return nil, err
	}
	img, err := g.processor.DecodeBytes(raw)
	if err != nil {
		return nil, err
	}
	formatted, err := g.compose(img)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        uuid.NewString(),
		Original:  img,
		Formatted: formatted,
	}, nil
}

func (g *Gallery) compose(img image.Image) ([]byte, error) {
	out, err := g.compositor.Compose(img)
	if err != nil {
		return nil, err
	}
	return g.processor.EncodePNG(out)
}

// Generate requests an image from the remote backend and ingests it like an
// upload. The generation call is awaited before its compose follow-up.
func (g *Gallery) Generate(ctx context.Context, prompt string, ratio types.AspectRatio) (Entry, error) {
	if g.generator == nil {
		return Entry{}, fmt.Errorf("no generation backend configured: %w", types.ErrRemoteGeneration)
	}
	if !ratio.Valid() {
		return Entry{}, fmt.Errorf("aspect ratio %q: %w", ratio, types.ErrRemoteGeneration)
	}

	raw, err := g.generator.Generate(ctx, prompt, ratio)
	if err != nil {
		return Entry{}, err
	}

	entries, err := g.Ingest(ctx, [][]byte{raw})
	if err != nil {
		return Entry{}, err
	}
	return entries[0], nil
}

// ApplyCrop re-derives the entry's original via the crop transform,
// recomposes it and replaces both the stored original and the formatted
// output atomically, so a second crop operates on the already-cropped
// bitmap. A zero-area region is a no-op that leaves the entry untouched.
// An unknown id fails with types.ErrNotFound and the gallery is unchanged.
func (g *Gallery) ApplyCrop(id string, displayed types.Displayed, region types.Region) (Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry := g.lookup(id)
	if entry == nil {
		return Entry{}, fmt.Errorf("entry %s: %w", id, types.ErrNotFound)
	}
	if region.Empty() {
		return *entry, nil
	}

	cropped, err := g.cropper.Crop(entry.Original, displayed, region)
	if err != nil {
		return Entry{}, err
	}
	formatted, err := g.compose(cropped)
	if err != nil {
		return Entry{}, err
	}

	entry.Original = cropped
	entry.Formatted = formatted
	return *entry, nil
}

// lookup returns the entry with the given id, or nil. Callers hold g.mu.
func (g *Gallery) lookup(id string) *Entry {
	for _, e := range g.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Entries returns a snapshot of the gallery in arrival order.
func (g *Gallery) Entries() []Entry {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := make([]Entry, len(g.entries))
	for i, e := range g.entries {
		result[i] = *e
	}
	return result
}

// Entry returns the entry with the given id.
func (g *Gallery) Entry(id string) (Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry := g.lookup(id)
	if entry == nil {
		return Entry{}, fmt.Errorf("entry %s: %w", id, types.ErrNotFound)
	}
	return *entry, nil
}

// Len returns the number of entries.
func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Clear empties the gallery. Idempotent.
func (g *Gallery) Clear() {
	g.mu.Lock()
	g.entries = nil
	g.mu.Unlock()
}

// Filename returns the deterministic download filename for the entry at the
// given zero-based position.
func Filename(index int) string {
	return fmt.Sprintf("instaframe-ai-image-%d.png", index+1)
}
