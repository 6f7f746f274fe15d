package command

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Kind int

const (
	KindVersion Kind = iota + 1
	KindCancel
	KindBarcode
	KindSKU
	KindWarehouse
	KindSearch
	KindOutbound
)

// Command is the parsed form of one chat message.
type Command struct {
	Kind      Kind
	SKU       string
	Barcode   string
	Query     string
	Warehouse string // raw hint as typed; resolution happens later
	Box       int
	Piece     int
	Canonical string // normalized outbound text for display and audit
}

const outPrefix = "出"

// unit classes of the outbound grammar. Box and piece are disjoint and
// never convert into each other; piece has several spoken synonyms.
var pieceUnits = map[rune]bool{'件': true, '個': true, '包': true}

const boxUnit = '箱'

// Parse maps a raw message to a command, or reports false for ordinary
// chatter. Dispatch is priority-ordered on prefixes so the outbound
// grammar, the loosest rule, runs last.
func Parse(raw string) (*Command, bool) {
	text := Normalize(raw)
	if text == "" {
		return nil, false
	}

	switch text {
	case "版本", "version", "ver":
		return &Command{Kind: KindVersion}, true
	case "取消", "算了":
		return &Command{Kind: KindCancel}, true
	}

	if rest, ok := cutPrefix(text, "倉庫", "倉"); ok {
		if rest == "" {
			return nil, false
		}
		return &Command{Kind: KindWarehouse, Warehouse: rest}, true
	}
	if rest, ok := cutPrefix(text, "條碼"); ok {
		if rest == "" {
			return nil, false
		}
		return &Command{Kind: KindBarcode, Barcode: rest}, true
	}
	if rest, ok := cutPrefix(text, "編號", "#"); ok {
		if rest == "" {
			return nil, false
		}
		return &Command{Kind: KindSKU, SKU: strings.ToLower(rest)}, true
	}
	if rest, ok := cutPrefix(text, "查"); ok {
		if rest == "" {
			return nil, false
		}
		return &Command{Kind: KindSearch, Query: rest}, true
	}
	if body, ok := strings.CutPrefix(text, outPrefix); ok {
		return parseOutbound(strings.TrimSpace(body))
	}
	return nil, false
}

// IsOutboundAttempt reports whether the text tried to be an outbound
// command, so the router can answer a malformed one with a hint
// instead of staying silent.
func IsOutboundAttempt(raw string) bool {
	return strings.HasPrefix(Normalize(raw), outPrefix)
}

// parseOutbound scans <integer><unit> tokens. Same-class tokens
// accumulate. A bare trailing integer counts as pieces only when no
// box token was seen. Anything left over besides one warehouse suffix
// invalidates the whole command, so prose containing digits never
// fires a deduction.
func parseOutbound(body string) (*Command, bool) {
	var (
		box, piece int
		boxTokens  int
		warehouse  string
	)

	r := []rune(body)
	i := 0
	for i < len(r) {
		if isSep(r[i]) {
			i++
			continue
		}

		if unicode.IsDigit(r[i]) {
			j := i
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			n, err := strconv.Atoi(string(r[i:j]))
			if err != nil || n < 0 {
				return nil, false
			}
			if j < len(r) {
				switch {
				case r[j] == boxUnit:
					box += n
					boxTokens++
					i = j + 1
					continue
				case pieceUnits[r[j]]:
					piece += n
					i = j + 1
					continue
				}
			}
			// no unit: acceptable only as the trailing integer of a
			// box-free command (a piece count with the unit omitted)
			if restEmpty(r, j) && boxTokens == 0 {
				piece += n
				i = j
				continue
			}
			return nil, false
		}

		// a word is only valid as the final, separator-delimited field:
		// the warehouse suffix. Text glued onto a token is extra text.
		j := i
		for j < len(r) && !isSep(r[j]) {
			j++
		}
		if i == 0 || !isSep(r[i-1]) || !restEmpty(r, j) || warehouse != "" {
			return nil, false
		}
		warehouse = string(r[i:j])
		i = j
	}

	if box == 0 && piece == 0 {
		return nil, false
	}

	cmd := &Command{Kind: KindOutbound, Box: box, Piece: piece, Warehouse: warehouse}
	cmd.Canonical = canonicalOutbound(box, piece, warehouse)
	return cmd, true
}

func canonicalOutbound(box, piece int, warehouse string) string {
	var sb strings.Builder
	sb.WriteString(outPrefix)
	if box > 0 {
		fmt.Fprintf(&sb, "%d箱", box)
	}
	if piece > 0 {
		fmt.Fprintf(&sb, "%d件", piece)
	}
	if warehouse != "" {
		sb.WriteString(" ")
		sb.WriteString(warehouse)
	}
	return sb.String()
}

func isSep(c rune) bool { return c == ' ' || c == ',' }

func restEmpty(r []rune, from int) bool {
	for _, c := range r[from:] {
		if !isSep(c) {
			return false
		}
	}
	return true
}

func cutPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
