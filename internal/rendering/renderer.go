package rendering

import (
	"context"

	"github.com/jonathan/creative-engine/internal/types"
)

// Renderer composites the text overlay of a layout onto a base image.
type Renderer interface {
	Render(ctx context.Context, base types.BaseImage, layout types.LayoutStrategy) (types.Artifact, error)
}
