package sdwebui

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/instaframe/instaframe/pkg/types"
)

// Client talks to a Stable Diffusion WebUI server over its txt2img API and
// implements the generation backend interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Config holds generation parameters sent with every request.
type Config struct {
	Steps       int
	CFGScale    float64
	SamplerName string
}

// txt2img request payload
type txt2imgRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"steps,omitempty"`
	CFGScale       float64 `json:"cfg_scale,omitempty"`
	SamplerName    string  `json:"sampler_name,omitempty"`
}

// txt2img response payload; Images carries base64-encoded PNGs
type txt2imgResponse struct {
	Images []string `json:"images"`
	Info   string   `json:"info,omitempty"`
}

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// NewClient creates a new generation client for the given server URL.
func NewClient(serverURL string) (*Client, error) {
	return NewClientWithConfig(serverURL, Config{
		Steps:       30,
		CFGScale:    7.0,
		SamplerName: "DPM++ 2M",
	})
}

// NewClientWithConfig creates a new generation client with custom
// generation parameters.
func NewClientWithConfig(serverURL string, config Config) (*Client, error) {
	if serverURL == "" {
		serverURL = "http://localhost:7860"
	}

	return &Client{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		config: config,
	}, nil
}

// Generate requests one image for the prompt at the given aspect ratio and
// returns its decoded bytes. Backend failures are reported with the server
// message passed through verbatim, wrapped in types.ErrRemoteGeneration.
func (c *Client) Generate(ctx context.Context, prompt string, ratio types.AspectRatio) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	width, height := ratio.Dimensions()
	req := txt2imgRequest{
		Prompt:      prompt,
		Width:       width,
		Height:      height,
		Steps:       c.config.Steps,
		CFGScale:    c.config.CFGScale,
		SamplerName: c.config.SamplerName,
	}

	respBody, err := c.sendRequest(ctx, "/sdapi/v1/txt2img", req)
	if err != nil {
		return nil, err
	}

	var resp txt2imgResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unparsable backend response: %w", types.ErrRemoteGeneration)
	}
	if len(resp.Images) == 0 {
		return nil, fmt.Errorf("backend returned no images: %w", types.ErrRemoteGeneration)
	}

	imgBytes, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("backend returned invalid base64: %w", types.ErrRemoteGeneration)
	}
	return imgBytes, nil
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, types.ErrRemoteGeneration)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", serverMessage(resp.StatusCode, body), types.ErrRemoteGeneration)
	}
	return body, nil
}

// serverMessage extracts the backend's own error text so it reaches the
// user verbatim, falling back to the raw body.
func serverMessage(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return fmt.Sprintf("server returned status %d: %s", status, strings.TrimSpace(string(body)))
}
