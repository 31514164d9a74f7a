package reviews

import "testing"

func TestSentimentScore(t *testing.T) {
	cases := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 0},
		{"no lexicon hits", "she arrived at six and left at nine", 0},
		{"all positive", "Great sitter, kind and patient!", 1},
		{"all negative", "Terrible. Rude and late.", -1},
		{"mixed", "great start but late pickup", 0},
		{"mostly positive", "kind, patient, reliable, but late", 0.5},
		{"case and punctuation", "GREAT!!! Wonderful... kind?", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SentimentScore(tc.text); got != tc.want {
				t.Errorf("SentimentScore(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestSentimentScoreBounds(t *testing.T) {
	for _, text := range []string{
		"great great great terrible",
		"bad bad bad bad good",
		"love loved wonderful awful worst rude",
	} {
		got := SentimentScore(text)
		if got < -1 || got > 1 {
			t.Errorf("SentimentScore(%q) = %v, out of [-1, 1]", text, got)
		}
	}
}
