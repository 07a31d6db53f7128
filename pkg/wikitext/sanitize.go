package wikitext

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	cellPolicyOnce sync.Once
	cellPolicy     *bluemonday.Policy
)

// sanitizeHTML strips whatever inline HTML survives the regexp passes. Vendor
// wiki cells carry stray <span>, <b> and table markup pasted from other tools;
// none of it belongs in cell text.
func sanitizeHTML(raw string) string {
	return cellSanitizer().Sanitize(raw)
}

func cellSanitizer() *bluemonday.Policy {
	cellPolicyOnce.Do(func() {
		cellPolicy = bluemonday.StrictPolicy()
	})
	return cellPolicy
}
