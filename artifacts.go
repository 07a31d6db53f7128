package wikiform

import (
	"github.com/goliatone/go-wikiform/internal/artifacts"
)

// ArtifactStore persists the pipeline's intermediate JSON files; alias
// exported so callers outside the module can read saved artifacts without
// reaching into internal packages.
type ArtifactStore = artifacts.Store

// Artifact filenames shared between the pipeline stages.
const (
	NormalizedArtifact    = artifacts.NormalizedName
	RendererInputArtifact = artifacts.RendererInputName
	OpenAPIArtifact       = artifacts.OpenAPIName
)

// NewArtifactStore constructs a store rooted at dir using the internal
// implementation while keeping the concrete wiring hidden from consumers. An
// empty dir targets the working directory.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	return artifacts.New(dir)
}

// RawArtifactName maps a wiki template name to its on-disk artifact filename.
func RawArtifactName(template string) string {
	return artifacts.RawDocumentName(template)
}
