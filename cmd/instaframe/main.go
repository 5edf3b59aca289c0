package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/instaframe/instaframe/internal/config"
	"github.com/instaframe/instaframe/internal/utils"
	"github.com/instaframe/instaframe/pkg/caption"
	"github.com/instaframe/instaframe/pkg/compositor"
	"github.com/instaframe/instaframe/pkg/gallery"
	"github.com/instaframe/instaframe/pkg/sdwebui"
	"github.com/instaframe/instaframe/pkg/types"
)

func main() {
	var outDir, prompt, ratio, cropSpec, configPath string
	var size int
	var padding float64
	var withCaption bool

	flag.StringVar(&outDir, "out", "", "output directory (default from config)")
	flag.StringVar(&prompt, "prompt", "", "generate an image from this prompt instead of reading files")
	flag.StringVar(&ratio, "ar", "1:1", "generation aspect ratio: 1:1|3:4|4:3|9:16|16:9")
	flag.StringVar(&cropSpec, "crop", "", "crop entry N before composing: N:x,y,w,h@WxH (displayed coords)")
	flag.StringVar(&configPath, "config", "", "config file path (default: built-in defaults)")
	flag.IntVar(&size, "size", 0, "square canvas size in px (overrides config)")
	flag.Float64Var(&padding, "padding", 0, "padding fraction in (0,1] (overrides config)")
	flag.BoolVar(&withCaption, "caption", false, "suggest a caption per image via Ollama")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 && prompt == "" {
		log.Fatalf("usage: %s [-prompt \"...\" -ar 1:1] [-crop N:x,y,w,h@WxH] [-out dir] image...",
			filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if size > 0 {
		cfg.Compositor.CanvasSize = size
	}
	if padding > 0 {
		cfg.Compositor.Padding = padding
	}
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	comp := compositor.NewWithConfig(compositor.Config{
		CanvasSize: cfg.Compositor.CanvasSize,
		Padding:    cfg.Compositor.Padding,
	})
	gal := gallery.NewWithCompositor(comp)
	ctx := context.Background()

	if prompt != "" {
		backend, err := sdwebui.NewClientWithConfig(cfg.Generation.ServerURL, sdwebui.Config{
			Steps:       cfg.Generation.Steps,
			CFGScale:    cfg.Generation.CFGScale,
			SamplerName: cfg.Generation.SamplerName,
		})
		if err != nil {
			log.Fatal(err)
		}
		gal.SetGenerator(backend)

		log.Printf("generating %s image for prompt %q", ratio, prompt)
		if _, err := gal.Generate(ctx, prompt, types.AspectRatio(ratio)); err != nil {
			log.Fatal(err)
		}
	} else {
		batch := make([][]byte, 0, len(inputs))
		for _, path := range inputs {
			if !utils.IsImageFile(path) {
				log.Printf("warning: %s does not look like an image file", path)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				log.Fatal(err)
			}
			batch = append(batch, raw)
		}
		if _, err := gal.Ingest(ctx, batch); err != nil {
			log.Fatal(err)
		}
	}

	if cropSpec != "" {
		index, displayed, region, err := parseCropSpec(cropSpec)
		if err != nil {
			log.Fatal(err)
		}
		entries := gal.Entries()
		if index < 0 || index >= len(entries) {
			log.Fatalf("crop index %d out of range (%d entries)", index, len(entries))
		}
		if _, err := gal.ApplyCrop(entries[index].ID, displayed, region); err != nil {
			log.Fatal(err)
		}
	}

	var suggester *caption.Suggester
	if withCaption || cfg.Caption.Enabled {
		var err error
		suggester, err = caption.NewSuggester(cfg.Caption.OllamaURL, cfg.Caption.Model)
		if err != nil {
			log.Fatal(err)
		}
	}

	for i, entry := range gal.Entries() {
		outPath := filepath.Join(outDir, gallery.Filename(i))
		if err := os.WriteFile(outPath, entry.Formatted, 0o644); err != nil {
			log.Fatalf("save %s failed: %v", outPath, err)
		}
		log.Printf("wrote %s", outPath)

		if suggester != nil {
			text, err := suggester.Suggest(ctx, entry.Original)
			if err != nil {
				log.Printf("caption for %s failed: %v", gallery.Filename(i), err)
				continue
			}
			log.Printf("caption: %s", text)
		}
	}
}

// parseCropSpec parses "N:x,y,w,h@WxH" into an entry index, the displayed
// dimensions of the on-screen rendering and the selected region.
func parseCropSpec(spec string) (int, types.Displayed, types.Region, error) {
	var index int
	var region types.Region
	var displayed types.Displayed

	n, err := fmt.Sscanf(spec, "%d:%g,%g,%g,%g@%gx%g",
		&index, &region.X, &region.Y, &region.Width, &region.Height,
		&displayed.Width, &displayed.Height)
	if err != nil || n != 7 {
		return 0, types.Displayed{}, types.Region{},
			fmt.Errorf("invalid crop spec %q (want N:x,y,w,h@WxH)", spec)
	}
	return index, displayed, region, nil
}
