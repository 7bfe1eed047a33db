// Package slugify derives URL-safe slugs from note titles.
//
// The derivation is deterministic: Cyrillic characters are transliterated to
// Latin, remaining text is decomposed with Unicode NFD and stripped of
// combining marks, and the result is lowercased and hyphenated. Output
// contains only [a-z0-9-].
package slugify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cyrillic maps lowercase Cyrillic letters onto Latin sequences.
var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "jo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "j", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "ju", 'я': "ja",
}

// stripMarks removes combining marks left over after NFD decomposition, so
// accented Latin letters fold to their ASCII base.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make returns the slug for the given text.
func Make(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var transliterated strings.Builder
	for _, r := range text {
		if latin, ok := cyrillic[r]; ok {
			transliterated.WriteString(latin)
			continue
		}
		transliterated.WriteRune(r)
	}

	folded, _, err := transform.String(stripMarks, transliterated.String())
	if err != nil {
		folded = transliterated.String()
	}

	var slug strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && slug.Len() > 0 {
				slug.WriteByte('-')
			}
			pendingHyphen = false
			slug.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return slug.String()
}
