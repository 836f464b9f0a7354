// Package language normalizes language hints before they reach the
// recognizer. Hints arrive in whatever form the translation layer used
// ("EN-US", "english", "deu"); the recognizer wants a bare ISO 639-1 code
// or nothing at all for auto-detection.
package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Hint normalizes a language hint to its ISO 639-1 base code. Empty input
// or an unrecognized tag yields "", which collaborators interpret as
// "detect the language yourself".
func Hint(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	tag, err := language.Parse(value)
	if err != nil {
		// Full language names ("english") are not valid BCP-47 tags.
		if tag, ok := byName(value); ok {
			return tag
		}
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}

// Display returns the English display name for a hint, for logging and
// review output. Unrecognized hints come back unchanged.
func Display(value string) string {
	code := Hint(value)
	if code == "" {
		return value
	}
	tag, err := language.Parse(code)
	if err != nil {
		return value
	}
	return display.English.Languages().Name(tag)
}

func byName(value string) (string, bool) {
	want := strings.ToLower(value)
	en := display.English.Languages()
	for _, tag := range []language.Tag{
		language.English, language.Spanish, language.French, language.German,
		language.Italian, language.Portuguese, language.Japanese, language.Korean,
		language.Chinese, language.Russian, language.Arabic, language.Hindi,
		language.Dutch, language.Polish, language.Swedish, language.Danish,
		language.Norwegian, language.Finnish, language.Ukrainian, language.Turkish,
	} {
		if strings.ToLower(en.Name(tag)) == want {
			base, _ := tag.Base()
			return base.String(), true
		}
	}
	return "", false
}
