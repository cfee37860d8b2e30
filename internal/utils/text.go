package utils

import (
	"regexp"
	"strconv"
)

var unicodeEscape = regexp.MustCompile(`\\u([0-9A-Fa-f]{4})`)
// ReplaceUnicodeSymbols replaces Unicode escape sequences (e.g. \u0026) with their characters.
// ReplaceUnicodeSymbols replaces Unicode escape sequences (e.g. &) with their characters.
// Some feeds double-escape titles, so the raw sequence ends up in the parsed string.
func ReplaceUnicodeSymbols(s string) string {
	return unicodeEscape.ReplaceAllStringFunc(s, func(match string) string {
		num, err := strconv.ParseInt(match[2:], 16, 32)
		if err != nil {
			return match
		}
		return string(rune(num))
	})
}
