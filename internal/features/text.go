package features

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rlagusgh2199/Real-MBTI-Project/internal/lexicon"
)

var sentenceBreak = regexp.MustCompile(`[.!?\n]+`)

// Text holds the format-agnostic linguistic ratios of a block of text.
// Ratios are not clamped.
type Text struct {
	WordCount        int     `json:"word_count"`
	SentenceCount    int     `json:"sentence_count"`
	AvgSentenceLen   float64 `json:"avg_sentence_len"`
	FirstPersonRatio float64 `json:"first_person_ratio"`
	QuestionRatio    float64 `json:"question_ratio"`
	ExclamationRatio float64 `json:"exclamation_ratio"`
	PositiveRatio    float64 `json:"positive_ratio"`
	NegativeRatio    float64 `json:"negative_ratio"`
}

// ExtractText computes sentence, token, pronoun, punctuation and sentiment
// ratios over text.
func ExtractText(text string, lx *lexicon.Lexicon) Text {
	trimmed := strings.TrimSpace(text)
	sentences := splitSentences(trimmed)
	tokens := Tokenize(trimmed)

	var f Text
	f.WordCount = len(tokens)
	f.SentenceCount = len(sentences)
	if f.SentenceCount > 0 {
		f.AvgSentenceLen = float64(f.WordCount) / float64(f.SentenceCount)
	}

	var firstPerson, positive, negative int
	for _, tok := range tokens {
		if lexicon.ContainsAny(tok, lx.FirstPerson) {
			firstPerson++
		}
		if lexicon.ContainsAny(tok, lx.Positive) {
			positive++
		}
		if lexicon.ContainsAny(tok, lx.Negative) {
			negative++
		}
	}

	sentenceBase := max(1, f.SentenceCount)
	wordBase := max(1, f.WordCount)

	f.FirstPersonRatio = ratio(firstPerson, f.WordCount)
	f.QuestionRatio = ratio(strings.Count(text, "?"), sentenceBase)
	f.ExclamationRatio = ratio(strings.Count(text, "!"), sentenceBase)
	f.PositiveRatio = ratio(positive, wordBase)
	f.NegativeRatio = ratio(negative, wordBase)
	return f
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// Tokenize replaces everything except ASCII letters and digits, Hangul
// syllables and whitespace with a space, then splits on whitespace.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case r >= '가' && r <= '힣':
			return r
		case unicode.IsSpace(r):
			return r
		}
		return ' '
	}, text)
	return strings.Fields(cleaned)
}

func ratio(count, base int) float64 {
	if base <= 0 {
		return 0.0
	}
	return float64(count) / float64(base)
}
