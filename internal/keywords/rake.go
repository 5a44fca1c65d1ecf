// Package keywords scores candidate terms for a body of text using
// co-occurrence statistics, in the style of Rapid Automatic Keyword
// Extraction: stopwords and punctuation delimit candidate phrases, and
// each word is scored by degree over frequency.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// ScoredTerm is a candidate keyword with its relevance score.
type ScoredTerm struct {
	Term  string
	Score float64
}

// Ranker extracts the highest-scoring terms from a body of text.
type Ranker interface {
	Rank(text string) []ScoredTerm
}

// Rake scores terms by degree/frequency over stopword-delimited phrases.
type Rake struct {
	stop StopSet
	// MaxWords caps candidate phrase length in words.
	MaxWords int
	// MinFreq drops candidates seen fewer than this many times.
	MinFreq int
}

// NewRake builds a ranker over the given stop set. Defaults match the
// single-word, frequency-three extraction used for cluster labeling.
func NewRake(stop StopSet) *Rake {
	return &Rake{stop: stop, MaxWords: 1, MinFreq: 3}
}

// Rank splits text into candidate phrases, scores each word by
// degree/frequency, and returns candidates meeting the frequency floor,
// sorted by score descending with ties broken alphabetically.
func (r *Rake) Rank(text string) []ScoredTerm {
	phrases := r.phrases(text)

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, p := range phrases {
		for _, w := range p {
			freq[w]++
			// A word's degree counts its co-occurrences, itself included.
			degree[w] += len(p)
		}
	}

	phraseFreq := make(map[string]int, len(phrases))
	for _, p := range phrases {
		phraseFreq[strings.Join(p, " ")]++
	}

	terms := make([]ScoredTerm, 0, len(phraseFreq))
	for phrase, n := range phraseFreq {
		if n < r.MinFreq {
			continue
		}
		var score float64
		for _, w := range strings.Fields(phrase) {
			score += float64(degree[w]) / float64(freq[w])
		}
		terms = append(terms, ScoredTerm{Term: phrase, Score: score})
	}

	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Score != terms[j].Score {
			return terms[i].Score > terms[j].Score
		}
		return terms[i].Term < terms[j].Term
	})
	return terms
}

// phrases splits text into runs of content words. Stopwords, punctuation
// and words carrying digits all act as phrase boundaries; apostrophes end
// the word but not the phrase, so French elisions like l'église separate
// the article from the noun. Runs longer than MaxWords are discarded.
func (r *Rake) phrases(text string) [][]string {
	var out [][]string
	var cur []string
	var word strings.Builder

	flushPhrase := func() {
		if len(cur) > 0 && len(cur) <= r.MaxWords {
			out = append(out, cur)
		}
		cur = nil
	}
	endWord := func() {
		w := strings.Trim(word.String(), "-")
		word.Reset()
		if w == "" {
			return
		}
		if r.stop.Has(w) || hasDigit(w) {
			flushPhrase()
			return
		}
		cur = append(cur, w)
	}

	for _, c := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-':
			word.WriteRune(c)
		case unicode.IsSpace(c) || c == '\'':
			endWord()
		default:
			endWord()
			flushPhrase()
		}
	}
	endWord()
	flushPhrase()
	return out
}

func hasDigit(w string) bool {
	for _, c := range w {
		if unicode.IsDigit(c) {
			return true
		}
	}
	return false
}
