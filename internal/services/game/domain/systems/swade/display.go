package swade

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName title-cases an identifier such as "weird_science" into
// "Weird Science".
func DisplayName(id string) string {
	if id == "" {
		return ""
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(id))
}
