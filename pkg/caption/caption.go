package caption

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/instaframe/instaframe/pkg/processing"
)

// DefaultPrompt asks the vision model for a single ready-to-post caption.
const DefaultPrompt = `You are a social media caption writer.

Look at the image and write ONE short caption suitable for posting it.

RULES
- At most 20 words.
- Factual and neutral; do not guess real identities.
- No hashtags, no emoji, no quotation marks.
- Return the caption text only, nothing else.`

// Model image prep parameters; vision models do not need full resolution.
const (
	sendMaxDim  = 1536
	sendQuality = 85
)

// Suggester proposes captions for processed images using an Ollama vision
// model. It is an optional add-on and never sits on the pipeline's error
// path.
type Suggester struct {
	client    *api.Client
	processor *processing.Processor
	model     string
}

// NewSuggester creates a Suggester talking to the given Ollama server.
func NewSuggester(ollamaURL, model string) (*Suggester, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// Base URL only; the api client appends its own paths
	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Suggester{
		client:    api.NewClient(baseURL, http.DefaultClient),
		processor: processing.NewProcessor(),
		model:     model,
	}, nil
}

// Suggest returns a caption for the image using the default prompt.
func (s *Suggester) Suggest(ctx context.Context, img image.Image) (string, error) {
	return s.SuggestWithPrompt(ctx, img, DefaultPrompt)
}

// SuggestWithPrompt returns a caption for the image using a custom prompt.
func (s *Suggester) SuggestWithPrompt(ctx context.Context, img image.Image, prompt string) (string, error) {
	// Add timeout if context doesn't have one (vision models on CPU are slow)
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	imgBytes, err := s.processor.EncodeForModel(img, sendMaxDim, sendQuality)
	if err != nil {
		return "", fmt.Errorf("failed to prepare image: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: s.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: prompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream: &streamFalse,
	}

	var responseContent string
	err = s.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}

	caption := sanitizeCaption(responseContent)
	if caption == "" {
		return "", fmt.Errorf("empty response from ollama")
	}
	return caption, nil
}

// sanitizeCaption strips quoting and fencing some models wrap answers in.
func sanitizeCaption(raw string) string {
	caption := strings.TrimSpace(raw)
	caption = strings.Trim(caption, "`")
	caption = strings.Trim(caption, `"`)

	// Keep only the first line if the model rambled
	if i := strings.IndexByte(caption, '\n'); i >= 0 {
		caption = caption[:i]
	}
	return strings.TrimSpace(caption)
}
