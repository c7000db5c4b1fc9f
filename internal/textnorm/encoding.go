package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/enescakir/emoji"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

var (
	// artifactPattern matches mojibake fragments that survive repair:
	// stray lead characters of mis-decoded UTF-8 followed by word
	// characters, and lone C1 control bytes.
	artifactPattern = regexp.MustCompile(`\x{e2}\w+|\x{f0}\w+|\x{c3}\w+|\x{e2}\x{20ac}|[\x{80}\x{93}\x{94}\x{99}\x{9c}\x{9d}]`)

	// residualPattern is the narrower check used by validation.
	residualPattern = regexp.MustCompile(`\x{e2}\w+|\x{f0}\w+`)
)

// RepairEncoding fixes mis-decoded byte sequences, applies NFKC, turns
// :short_code: emoji into pictographs and strips leftover artifacts.
func RepairEncoding(s string) string {
	if s == "" {
		return s
	}

	s = repairMojibake(s)
	s = norm.NFKC.String(s)
	s = emoji.Parse(s)

	return StripArtifacts(s)
}

// StripArtifacts removes known mojibake fragments.
func StripArtifacts(s string) string {
	return artifactPattern.ReplaceAllString(s, "")
}

// HasResidualArtifacts reports whether s still looks mis-decoded.
func HasResidualArtifacts(s string) bool {
	return residualPattern.MatchString(s)
}

// repairMojibake re-encodes runs of characters that look like UTF-8 bytes
// decoded as Windows-1252 (or Latin-1) and decodes them again as UTF-8.
// Runs that do not form a valid UTF-8 sequence are left alone, so
// legitimate accented text passes through. Double-encoded input is
// repaired by the second pass.
func repairMojibake(s string) string {
	for pass := 0; pass < 2; pass++ {
		fixed := repairPass(s)
		if fixed == s {
			break
		}
		s = fixed
	}
	return s
}

func repairPass(s string) string {
	if !hasHighLatin(s) {
		return s
	}

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); {
		if r, n := decodeSequence(runes[i:]); n > 0 {
			b.WriteRune(r)
			i += n
			continue
		}
		b.WriteRune(runes[i])
		i++
	}

	return b.String()
}

// decodeSequence tries to read one mis-decoded UTF-8 sequence from the
// head of runes. It returns the repaired rune and the number of runes
// consumed, or 0 when the head is not mojibake.
func decodeSequence(runes []rune) (rune, int) {
	lead, ok := singleByte(runes[0])
	if !ok {
		return 0, 0
	}

	var n int
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		n = 2
	case lead >= 0xE0 && lead <= 0xEF:
		n = 3
	case lead >= 0xF0 && lead <= 0xF4:
		n = 4
	default:
		return 0, 0
	}
	if len(runes) < n {
		return 0, 0
	}

	buf := make([]byte, 0, n)
	buf = append(buf, lead)
	for _, r := range runes[1:n] {
		c, ok := singleByte(r)
		if !ok || c < 0x80 || c > 0xBF {
			return 0, 0
		}
		buf = append(buf, c)
	}

	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError || size != n {
		return 0, 0
	}
	return r, n
}

// singleByte maps r back to the byte it was decoded from under
// Windows-1252, falling back to Latin-1 for the C1 range that
// Windows-1252 leaves undefined.
func singleByte(r rune) (byte, bool) {
	if r < utf8.RuneSelf {
		return byte(r), true
	}
	if b, ok := charmap.Windows1252.EncodeRune(r); ok {
		return b, true
	}
	if r >= 0x80 && r <= 0xFF {
		return byte(r), true
	}
	return 0, false
}

func hasHighLatin(s string) bool {
	for _, r := range s {
		if r >= 0xC2 && r <= 0xF4 {
			return true
		}
	}
	return false
}
