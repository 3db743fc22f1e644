package coords

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// lookalikes maps Cyrillic letters to the Latin letters they are visually
// identical to. Typists switching keyboard layouts mid-word produce these.
var lookalikes = map[rune]rune{
	'А': 'A', 'а': 'a',
	'В': 'B', 'в': 'b',
	'Е': 'E', 'е': 'e',
	'К': 'K', 'к': 'k',
	'М': 'M', 'м': 'm',
	'Н': 'H', 'н': 'h',
	'О': 'O', 'о': 'o',
	'П': 'P', 'п': 'p',
	'С': 'C', 'с': 'c',
	'Т': 'T', 'т': 't',
	'У': 'Y', 'у': 'y',
	'Х': 'X', 'х': 'x',
	'Р': 'P', 'р': 'p',
}

// Normalize canonicalizes text before pattern matching: NFKC, then every
// run of whitespace becomes one ASCII space, then Cyrillic look-alikes are
// transliterated. Normalize is idempotent.
//
// A transliterated letter followed by a combining mark may compose into a
// Latin precomposed rune, so the result is recomposed with NFC once more.
func Normalize(text string) string {
	return norm.NFC.String(Transliterate(collapseSpace(norm.NFKC.String(text))))
}

// Transliterate replaces Cyrillic look-alike letters with their Latin
// counterparts and leaves every other rune alone.
func Transliterate(text string) string {
	return strings.Map(func(r rune) rune {
		if l, ok := lookalikes[r]; ok {
			return l
		}
		return r
	}, text)
}

func collapseSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
