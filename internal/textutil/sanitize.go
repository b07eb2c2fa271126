package textutil

import (
	"strings"
	"unicode"
)

// unsafeNames maps characters that are invalid in file names on common
// filesystems. Separators become dashes; the rest are dropped.
var unsafeNames = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes name usable as a single path element. Unsafe
// characters are replaced, control characters dropped, whitespace runs
// collapsed to one space, and leading or trailing spaces and dots trimmed.
// CJK and other printable characters are kept as is.
func SanitizeFileName(name string) string {
	name = unsafeNames.Replace(name)
	var b strings.Builder
	b.Grow(len(name))
	space := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), " .")
}
