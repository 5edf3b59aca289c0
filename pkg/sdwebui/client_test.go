package sdwebui

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/instaframe/instaframe/pkg/types"
)

// tiny valid PNG payload stand-in; the client only base64-decodes it
var fakeImageBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3, 4}

func TestGenerate(t *testing.T) {
	var gotReq txt2imgRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sdapi/v1/txt2img" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Unexpected content type %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		json.NewEncoder(w).Encode(txt2imgResponse{
			Images: []string{base64.StdEncoding.EncodeToString(fakeImageBytes)},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	data, err := client.Generate(context.Background(), "a lighthouse at dusk", types.RatioStory)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if string(data) != string(fakeImageBytes) {
		t.Error("Returned bytes differ from backend image")
	}
	if gotReq.Prompt != "a lighthouse at dusk" {
		t.Errorf("Backend received prompt %q", gotReq.Prompt)
	}
	if gotReq.Width != 720 || gotReq.Height != 1280 {
		t.Errorf("Expected 720x1280 for 9:16, got %dx%d", gotReq.Width, gotReq.Height)
	}
	if gotReq.Steps == 0 {
		t.Error("Expected default steps to be sent")
	}
}

func TestGenerateRatioDimensions(t *testing.T) {
	var gotReq txt2imgRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(txt2imgResponse{
			Images: []string{base64.StdEncoding.EncodeToString(fakeImageBytes)},
		})
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)

	cases := map[types.AspectRatio][2]int{
		types.RatioSquare:     {1024, 1024},
		types.RatioPortrait:   {768, 1024},
		types.RatioLandscape:  {1024, 768},
		types.RatioWidescreen: {1280, 720},
	}

	for ratio, want := range cases {
		if _, err := client.Generate(context.Background(), "x", ratio); err != nil {
			t.Fatalf("Generate(%s) failed: %v", ratio, err)
		}
		if gotReq.Width != want[0] || gotReq.Height != want[1] {
			t.Errorf("Ratio %s: expected %dx%d, got %dx%d",
				ratio, want[0], want[1], gotReq.Width, gotReq.Height)
		}
	}
}

func TestGenerateServerErrorPassesMessageThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(apiError{Detail: "CUDA out of memory"})
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)

	_, err := client.Generate(context.Background(), "x", types.RatioSquare)
	if !errors.Is(err, types.ErrRemoteGeneration) {
		t.Fatalf("Expected ErrRemoteGeneration, got %v", err)
	}
	if !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Errorf("Backend message not passed through: %v", err)
	}
}

func TestGenerateEmptyImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(txt2imgResponse{})
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)

	_, err := client.Generate(context.Background(), "x", types.RatioSquare)
	if !errors.Is(err, types.ErrRemoteGeneration) {
		t.Fatalf("Expected ErrRemoteGeneration for empty image list, got %v", err)
	}
}

func TestGenerateInvalidBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(txt2imgResponse{Images: []string{"%%% not base64 %%%"}})
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)

	_, err := client.Generate(context.Background(), "x", types.RatioSquare)
	if !errors.Is(err, types.ErrRemoteGeneration) {
		t.Fatalf("Expected ErrRemoteGeneration for bad base64, got %v", err)
	}
}

func TestGenerateUnreachableServer(t *testing.T) {
	client, _ := NewClient("http://127.0.0.1:1")

	_, err := client.Generate(context.Background(), "x", types.RatioSquare)
	if !errors.Is(err, types.ErrRemoteGeneration) {
		t.Fatalf("Expected ErrRemoteGeneration for unreachable server, got %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.baseURL != "http://localhost:7860" {
		t.Errorf("Expected default base URL, got %s", client.baseURL)
	}

	client, _ = NewClient("http://example.com/")
	if client.baseURL != "http://example.com" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
}
