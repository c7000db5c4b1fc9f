package textnorm

import (
	"strings"
	"unicode"
)

// emojiTable lists the pictographic blocks treated as emoji. CJK blocks
// are left out apart from the few emoji-presentation symbols in them.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2300, Hi: 0x23FF, Stride: 1}, // miscellaneous technical
		{Lo: 0x24C2, Hi: 0x24C2, Stride: 1}, // circled M
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // miscellaneous symbols
		{Lo: 0x2702, Hi: 0x27B0, Stride: 1}, // dingbats
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // miscellaneous symbols and arrows
		{Lo: 0x3030, Hi: 0x3030, Stride: 1}, // wavy dash
		{Lo: 0x303D, Hi: 0x303D, Stride: 1}, // part alternation mark
		{Lo: 0x3297, Hi: 0x3297, Stride: 1}, // circled ideograph congratulation
		{Lo: 0x3299, Hi: 0x3299, Stride: 1}, // circled ideograph secret
	},
	R32: []unicode.Range32{
		{Lo: 0x1F170, Hi: 0x1F251, Stride: 1}, // enclosed alphanumeric/ideographic supplement
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // symbols & pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // transport & map
		{Lo: 0x1F700, Hi: 0x1F77F, Stride: 1}, // alchemical
		{Lo: 0x1F780, Hi: 0x1F7FF, Stride: 1}, // geometric shapes extended
		{Lo: 0x1F800, Hi: 0x1F8FF, Stride: 1}, // supplemental arrows-C
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // supplemental symbols & pictographs
		{Lo: 0x1FA00, Hi: 0x1FA6F, Stride: 1}, // chess symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // symbols & pictographs extended-A
	},
}

const (
	zeroWidthJoiner   = '\u200d'
	variationSelector = '\ufe0f'
)

// IsEmoji reports whether r falls in one of the emoji blocks.
func IsEmoji(r rune) bool {
	return unicode.Is(emojiTable, r)
}

// ExtractEmoji removes every emoji from s and returns the remaining text
// together with the removed emoji runs in order of appearance. Joiners and
// variation selectors directly attached to an emoji stay with its run.
func ExtractEmoji(s string) (string, []string) {
	var (
		text  strings.Builder
		run   strings.Builder
		runs  []string
		inRun bool
	)

	flush := func() {
		if run.Len() > 0 {
			runs = append(runs, run.String())
			run.Reset()
		}
		inRun = false
	}

	for _, r := range s {
		switch {
		case IsEmoji(r):
			run.WriteRune(r)
			inRun = true
		case inRun && (r == zeroWidthJoiner || r == variationSelector):
			run.WriteRune(r)
		default:
			if inRun {
				flush()
				text.WriteRune(' ')
			}
			text.WriteRune(r)
		}
	}
	flush()

	return text.String(), runs
}

// CountEmoji returns the number of emoji runes in s.
func CountEmoji(s string) int {
	n := 0
	for _, r := range s {
		if IsEmoji(r) {
			n++
		}
	}
	return n
}
