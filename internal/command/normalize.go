package command

import (
	"strings"

	"golang.org/x/text/width"
)

var commaFolder = strings.NewReplacer("，", ",", "、", ",", "､", ",")

// Normalize canonicalizes user input before parsing: full-width ASCII
// and ideographic spaces fold to their narrow forms, comma variants
// unify, whitespace runs collapse to a single space. Pure, total.
func Normalize(s string) string {
	s = width.Narrow.String(s)
	s = commaFolder.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
