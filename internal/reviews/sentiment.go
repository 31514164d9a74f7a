package reviews

import (
	"strings"
	"unicode"
)

// Lexicon scoring: the score is (positive - negative) / (positive + negative)
// over matched words, clamped to [-1, 1] by construction. A comment with no
// lexicon hits scores 0.
var positiveWords = map[string]struct{}{
	"amazing": {}, "attentive": {}, "awesome": {}, "best": {}, "calm": {},
	"caring": {}, "dependable": {}, "excellent": {}, "fantastic": {},
	"friendly": {}, "fun": {}, "gentle": {}, "good": {}, "great": {},
	"happy": {}, "helpful": {}, "kind": {}, "love": {}, "loved": {},
	"patient": {}, "perfect": {}, "professional": {}, "prompt": {},
	"punctual": {}, "recommend": {}, "reliable": {}, "responsible": {},
	"safe": {}, "sweet": {}, "thoughtful": {}, "trustworthy": {}, "wonderful": {},
}

var negativeWords = map[string]struct{}{
	"awful": {}, "bad": {}, "careless": {}, "cancelled": {}, "cold": {},
	"disappointing": {}, "dirty": {}, "distracted": {}, "horrible": {},
	"ignored": {}, "impatient": {}, "late": {}, "lazy": {}, "mean": {},
	"messy": {}, "negligent": {}, "never": {}, "poor": {}, "rude": {},
	"terrible": {}, "unreliable": {}, "unprofessional": {}, "unsafe": {},
	"worst": {},
}

// SentimentScore rates the comment text in [-1, 1], negative to positive.
func SentimentScore(text string) float64 {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var pos, neg int
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		} else if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
