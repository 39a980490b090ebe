package codegen

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
)

// separators are runs of anything that is neither a letter nor a digit in
// any script.
var separators = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug converts a component name to lowercase hyphenated form. Punctuation,
// whitespace, case changes and letter/digit boundaries all start a new word:
// "cards.UserProfile2" becomes "cards-user-profile-2". Letters outside ASCII
// are kept: "café.Menü" becomes "café-menü".
func Slug(name string) string {
	words := strings.TrimSpace(separators.ReplaceAllString(name, " "))
	return strings.ToLower(strcase.ToKebab(words))
}
