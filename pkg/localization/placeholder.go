package localization

import (
	"fmt"
	"maps"
	"strings"
)

// ReplacePlaceholders substitutes {{name}} markers in text with values from
// the placeholder map. Markers without a matching entry stay unchanged.
//
// Example:
//
//	text: "Restores {{amount}} HP over {{seconds}}s."
//	placeholders: M{"amount": 50, "seconds": 3}
//	returns: "Restores 50 HP over 3s."
func ReplacePlaceholders(text string, placeholders M) string {
	if len(placeholders) == 0 {
		return text
	}

	for name, value := range placeholders {
		text = strings.ReplaceAll(text, "{{"+name+"}}", fmt.Sprintf("%v", value))
	}
	return text
}

func replaceAll(text string, placeholders []M) string {
	if len(placeholders) == 0 {
		return text
	}

	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(text, merged)
}
