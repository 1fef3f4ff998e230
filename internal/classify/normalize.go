package classify

import (
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// wordPattern matches runs of letters, digits and underscores, the token
// definition every word count in this package uses.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var sentenceTokenizer *sentences.DefaultSentenceTokenizer

func init() {
	if t, err := english.NewSentenceTokenizer(nil); err == nil {
		sentenceTokenizer = t
	}
}

// Words returns the lowercase word tokens of text, in order. Empty input
// yields an empty slice.
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// WordCount counts word tokens without lowering the text first.
func WordCount(text string) int {
	return len(wordPattern.FindAllString(text, -1))
}

// Sentences splits text into sentences using the trained English tokenizer.
// When the tokenizer is unavailable or finds nothing, a plain split on
// terminal punctuation takes over, so callers always get the best split
// available rather than an error.
func Sentences(text string) []string {
	if sentenceTokenizer != nil {
		toks := sentenceTokenizer.Tokenize(text)
		out := make([]string, 0, len(toks))
		for _, tok := range toks {
			if s := strings.TrimSpace(tok.Text); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return splitOnPunctuation(text)
}

func splitOnPunctuation(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
