package wikiform

import (
	"io/fs"

	"github.com/goliatone/go-wikiform/pkg/renderers/gpuiml"
)

// EmbeddedTemplates exposes the built-in gpuiml renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return gpuiml.TemplatesFS()
}
