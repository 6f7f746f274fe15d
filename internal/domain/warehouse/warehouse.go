// Package warehouse is the fixed code↔label registry. Both directions
// are total: unknown codes pass through as their own label, unknown
// labels resolve to the Unspecified sentinel. Nothing here can fail.
package warehouse

// Unspecified is the sentinel code returned when a label cannot be
// resolved; callers treat it as "no warehouse chosen".
const Unspecified = "unspecified"

var registry = []struct {
	Code  string
	Label string
}{
	{"main", "主倉"},
	{"front", "門市"},
	{"side", "側倉"},
}

// legacy code kept readable in old audit rows; folds to the canonical one.
var aliases = map[string]string{"store": "front"}

// Label maps a code to its display label, passing unknown codes
// through unchanged.
func Label(code string) string {
	if code == Unspecified {
		return "未指定"
	}
	for _, w := range registry {
		if w.Code == code {
			return w.Label
		}
	}
	return code
}

// Code maps free input (canonical code, legacy alias, or display
// label) to a canonical code, else Unspecified.
func Code(input string) string {
	if c, ok := aliases[input]; ok {
		return c
	}
	if isCodeSyntax(input) {
		return input
	}
	for _, w := range registry {
		if w.Label == input {
			return w.Code
		}
	}
	return Unspecified
}

// Known reports whether the code is in the registry.
func Known(code string) bool {
	for _, w := range registry {
		if w.Code == code {
			return true
		}
	}
	return false
}

func isCodeSyntax(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
