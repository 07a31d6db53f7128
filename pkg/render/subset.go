package render

import (
	"strings"

	"github.com/goliatone/go-wikiform/pkg/model"
)

// SectionFilter narrows rendering to the named document sections. An empty
// filter keeps the whole document.
type SectionFilter struct {
	Titles []string
}

// Empty reports whether the filter selects nothing.
func (f SectionFilter) Empty() bool {
	for _, title := range f.Titles {
		if strings.TrimSpace(title) != "" {
			return false
		}
	}
	return true
}

// ApplySections returns the document narrowed to the sections the filter
// names. Matching ignores case and surrounding whitespace; document order is
// preserved regardless of filter order. When the filter is empty the document
// is returned unchanged.
func ApplySections(doc model.Document, filter SectionFilter) model.Document {
	if filter.Empty() {
		return doc
	}

	wanted := make(map[string]struct{}, len(filter.Titles))
	for _, title := range filter.Titles {
		token := normalizeTitle(title)
		if token == "" {
			continue
		}
		wanted[token] = struct{}{}
	}

	var out model.Document
	for _, section := range doc.Sections {
		if _, ok := wanted[normalizeTitle(section.Title)]; ok {
			out.Sections = append(out.Sections, section)
		}
	}
	return out
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
