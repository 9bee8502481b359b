// Package suggest picks a category for an expense description from the
// categories' keywords.
package suggest

import (
	"strings"

	"mintly/internal/core"
)

// Match returns the first category, in list order, having a non-blank keyword
// that occurs in description ignoring case. Blank descriptions match nothing.
func Match(description string, categories []core.Category) (core.Category, bool) {
	if strings.TrimSpace(description) == "" {
		return core.Category{}, false
	}
	desc := strings.ToLower(description)
	for _, c := range categories {
		for _, kw := range c.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			if strings.Contains(desc, strings.ToLower(kw)) {
				return c, true
			}
		}
	}
	return core.Category{}, false
}
