package graph

import (
	"strings"
	"unicode"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pkoukk/tiktoken-go"
)

// processWindow is one token-bounded slice of a document, the unit the
// candidate pass runs over. Start and end are sentence indexes.
type processWindow struct {
	id    string
	start int
	end   int
	text  string
}

// splitIntoWindows cuts text into sentence-aligned windows of at most
// maxTokens tokens each. Sentences longer than the budget become their own
// window rather than being split mid-sentence.
func splitIntoWindows(text string, encoder string, maxTokens int) ([]processWindow, error) {
	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return nil, err
	}

	sentences := splitIntoSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var windows []processWindow
	var current []string
	start := 0
	tokens := 0

	flush := func(end int) error {
		if len(current) == 0 {
			return nil
		}
		id, err := gonanoid.New()
		if err != nil {
			return err
		}
		windows = append(windows, processWindow{
			id:    id,
			start: start,
			end:   end,
			text:  strings.Join(current, " "),
		})
		current = nil
		tokens = 0
		start = end
		return nil
	}

	for i, s := range sentences {
		n := len(enc.Encode(s, nil, nil)) + 1
		if tokens+n > maxTokens && len(current) > 0 {
			if err := flush(i); err != nil {
				return nil, err
			}
		}
		current = append(current, s)
		tokens += n
	}
	if err := flush(len(sentences)); err != nil {
		return nil, err
	}

	return windows, nil
}

// splitIntoSentences breaks text into sentences. Blank lines always end a
// sentence; within a line, terminal punctuation ends one unless it closes a
// numeric listing like "1. Intro".
func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	endCurrent := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			endCurrent()
			continue
		}
		for _, part := range splitLineIntoSentences(trimmed) {
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(part)
			if isSentenceEnd(part) {
				endCurrent()
			}
		}
	}
	endCurrent()

	return sentences
}

func isSentenceEnd(s string) bool {
	s = strings.TrimRight(strings.TrimSpace(s), `"')]}`)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func splitLineIntoSentences(line string) []string {
	var sentences []string
	var current strings.Builder

	for i := 0; i < len(line); i++ {
		current.WriteByte(line[i])

		if line[i] != '.' && line[i] != '!' && line[i] != '?' {
			continue
		}

		// "1. Intro" style listings are not sentence ends.
		if line[i] == '.' && i > 0 && unicode.IsDigit(rune(line[i-1])) &&
			i+1 < len(line) && line[i+1] == ' ' {
			continue
		}

		j := i + 1
		for j < len(line) && (line[j] == '.' || line[j] == '!' || line[j] == '?') {
			current.WriteByte(line[j])
			j++
		}
		for j < len(line) && strings.ContainsRune(`"')]}`, rune(line[j])) {
			current.WriteByte(line[j])
			j++
		}

		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
		i = j - 1
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
