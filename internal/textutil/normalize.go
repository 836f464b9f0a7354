package textutil

import (
	"strings"
	"unicode"
)

// Normalize prepares text for similarity comparison: leading and trailing
// whitespace is trimmed, punctuation is removed, and the result is
// lowercased. Inner whitespace is preserved as-is.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Tokenize splits normalized text into whitespace-delimited words.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
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

// SanitizeName makes a program title or speaker name safe for use as a
// path segment. Slashes, backslashes, colons, and asterisks become dashes;
// other unsafe characters are removed. Returns "untitled" for input that
// sanitizes to nothing.
func SanitizeName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	if name == "" {
		return "untitled"
	}
	return name
}
