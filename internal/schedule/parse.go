// Package schedule holds the 48-value intensity table and the manual
// override behind a single controller, with the device's permissive
// text encoding for both.
package schedule

import (
	"strconv"
	"strings"

	"github.com/mwoudenberg/aqualed/internal/logic"
)

// ParseList decodes a comma-separated list of intensities into a full
// table. Each slot takes the next token, coerced with leading-integer
// semantics (malformed tokens become 0). Missing trailing tokens leave
// their slots at 0. Parsing never fails: a bad request degrades slot by
// slot instead of being rejected.
func ParseList(s string) logic.Table {
	var t logic.Table
	tokens := strings.Split(s, ",")
	for i := 0; i < logic.Slots && i < len(tokens); i++ {
		t[i] = uint8(coerceInt(tokens[i]))
	}
	return t
}

// Dump encodes the table as comma-separated decimal values with a
// trailing comma after the last one. The format is consumed by the web
// UI and must stay bit-exact.
func Dump(t logic.Table) string {
	var b strings.Builder
	for _, v := range t {
		b.WriteString(strconv.Itoa(int(v)))
		b.WriteByte(',')
	}
	return b.String()
}

// ParseOverride decodes "<A>,<B>". The text before the first comma sets
// channel A; the text after it sets channel B. Without a comma channel B
// keeps its previous value. The result is always active.
func ParseOverride(s string, prev logic.Override) logic.Override {
	ov := logic.Override{Active: true, LevelB: prev.LevelB}
	ov.LevelA = uint8(coerceInt(s))
	if i := strings.Index(s, ","); i >= 0 {
		ov.LevelB = uint8(coerceInt(s[i+1:]))
	}
	return ov
}

// coerceInt reads a leading decimal integer from s, skipping leading
// whitespace and accepting an optional sign. Anything unparseable is 0.
func coerceInt(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == end {
		return 0
	}
	n, err := strconv.Atoi(s[:digits])
	if err != nil {
		return 0
	}
	return n
}
