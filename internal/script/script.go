// Package script parses dubbing scripts into ordered raw utterances.
//
// A script is plain text where speaker changes are marked with a
// `{name}` line and passages may be preceded by a timecode line of the
// form `[ HH:MM:SS.mmm --> HH:MM:SS.mmm ]`. Text between markers belongs
// to the most recent speaker and timecode.
package script

import (
	"regexp"
	"strings"

	"revoice/internal/services"
)

// RawUtterance is one parsed script entry before synthesis.
type RawUtterance struct {
	// Timecode is the raw source timing line, empty when the script
	// carries no timing information.
	Timecode string
	Speaker  string
	Text     string
}

var (
	speakerRe  = regexp.MustCompile(`\{[\w \t-]+\}`)
	timecodeRe = regexp.MustCompile(`\[?\s*\d{2}:\d{2}:\d{2}\.\d{3}\s*-->\s*\d{2}:\d{2}:\d{2}\.\d{3}\s*\]?`)
)

// ValidateTitle trims the program title and rejects empty values.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", services.Wrap(services.ErrValidation, "script", "validate title", "title required", nil)
	}
	return title, nil
}

// Parse splits the raw script text into utterances. Long passages are
// broken into sentence-bounded chunks so each synthesis call stays within
// a workable length. Text appearing before the first speaker marker is a
// validation error.
func Parse(raw string) ([]RawUtterance, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, services.Wrap(services.ErrValidation, "script", "parse", "empty script", nil)
	}

	var out []RawUtterance
	speaker := ""
	timecode := ""
	var buf strings.Builder

	flush := func() error {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text == "" {
			return nil
		}
		if speaker == "" {
			return services.Wrap(services.ErrValidation, "script", "parse",
				"text before first speaker marker", nil)
		}
		for _, chunk := range splitSentences(text) {
			out = append(out, RawUtterance{Timecode: timecode, Speaker: speaker, Text: chunk})
		}
		return nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case timecodeRe.MatchString(trimmed) && strings.Contains(trimmed, "-->"):
			if err := flush(); err != nil {
				return nil, err
			}
			timecode = timecodeRe.FindString(trimmed)
		case speakerRe.MatchString(trimmed):
			if err := flush(); err != nil {
				return nil, err
			}
			name := speakerRe.FindString(trimmed)
			speaker = strings.TrimSpace(strings.Trim(name, "{}"))
		default:
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, services.Wrap(services.ErrValidation, "script", "parse", "no utterances found", nil)
	}
	return out, nil
}

// maxChunkLen bounds one synthesis call; the synthesizer degrades on
// passages much longer than a few sentences.
const maxChunkLen = 250

// splitSentences breaks text on sentence punctuation and recombines the
// pieces into chunks no longer than maxChunkLen where possible. A single
// sentence longer than the window is kept whole.
func splitSentences(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxChunkLen {
		return []string{text}
	}

	var sentences []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			// consume trailing quote or repeated punctuation
			end := i + 1
			for end < len(runes) && (runes[end] == '.' || runes[end] == '!' || runes[end] == '?' || runes[end] == '"' || runes[end] == '\'') {
				end++
			}
			sentence := strings.TrimSpace(string(runes[start:end]))
			if sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = end
		}
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	if len(sentences) == 0 {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	for _, sentence := range sentences {
		if cur.Len() > 0 && cur.Len()+1+len(sentence) > maxChunkLen {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(sentence)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
