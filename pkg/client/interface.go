package client

import (
	"context"

	"github.com/instaframe/instaframe/pkg/types"
)

// Generator is the remote image-generation collaborator: prompt and aspect
// ratio in, encoded image bytes out. Implementations are opaque to the
// pipeline; failures surface as types.ErrRemoteGeneration.
type Generator interface {
	Generate(ctx context.Context, prompt string, ratio types.AspectRatio) ([]byte, error)
}
