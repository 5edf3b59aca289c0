package types

import "errors"

// Sentinel errors for the pipeline. Callers match them with errors.Is;
// producing code wraps them with fmt.Errorf and %w to add detail.
var (
	// ErrDecode means the input bytes could not be rasterized.
	ErrDecode = errors.New("image could not be decoded")

	// ErrUnsupportedType means the input is not an image MIME type.
	ErrUnsupportedType = errors.New("unsupported media type")

	// ErrOutOfBounds means a crop region exceeds the displayed bounds.
	ErrOutOfBounds = errors.New("crop region out of bounds")

	// ErrNotFound means an operation referenced an unknown gallery entry.
	ErrNotFound = errors.New("gallery entry not found")

	// ErrRemoteGeneration means the generation backend failed; the backend
	// message is passed through verbatim in the wrapping error.
	ErrRemoteGeneration = errors.New("remote generation failed")

	// ErrCanvasUnavailable means no valid drawing surface could be allocated.
	// This indicates a misconfigured pipeline, not a user-recoverable fault.
	ErrCanvasUnavailable = errors.New("drawing surface unavailable")
)
