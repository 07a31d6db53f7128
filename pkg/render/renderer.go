package render

import (
	"context"

	"github.com/goliatone/go-wikiform/pkg/model"
)

// Renderer converts a normalized parameter document into a byte
// representation (gpuiml markup, HTML, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc model.Document, options RenderOptions) ([]byte, error)
}
