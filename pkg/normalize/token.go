package normalize

import "strings"

// snakeCase reduces header text to the field-name token: lowercase, runs of
// anything outside [a-z0-9] collapse to single underscores, edges trimmed.
// "Parameter ID" becomes "parameter_id".
func snakeCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	pendingSep := false
	for _, r := range strings.ToLower(text) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isWord {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
