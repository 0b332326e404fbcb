package search

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pders01/narou/internal/storage"
)

// Engine searches the archive by scanning it, without an index. It backs
// `narou search --scan` and works when the index is locked or missing.
type Engine struct {
	store *storage.Store
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	docs, err := archivedDocuments(e.store)
	if err != nil {
		return nil, err
	}

	return rank(docs, terms, limit), nil
}

// rank scores docs against terms and returns the best limit hits, highest
// score first.
func rank(docs []Document, terms []string, limit int) []*Result {
	results := []*Result{}
	for _, d := range docs {
		if r := scoreDocument(d, terms); r != nil {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func scoreDocument(d Document, terms []string) *Result {
	var matches []Match
	var totalScore float64

	if s := scoreField(d.Title, terms, 4.0); s > 0 {
		matches = append(matches, Match{Field: "title", Text: d.Title, Weight: s})
		totalScore += s
	}

	if s := scoreField(d.Summary, terms, 2.0); s > 0 {
		matches = append(matches, Match{
			Field:  "summary",
			Text:   findBestSnippet(d.Summary, terms, 200),
			Weight: s,
		})
		totalScore += s
	}

	if s := scoreField(d.Feed, terms, 1.0); s > 0 {
		matches = append(matches, Match{Field: "feed", Text: d.Feed, Weight: s})
		totalScore += s
	}

	if totalScore == 0 {
		return nil
	}
	return &Result{Document: d, Score: totalScore, Matches: matches}
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		// Substring match also covers Japanese text, which has no spaces.
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	if len(words) > 0 {
		tf := float64(matchedTerms) / float64(len(words))
		score *= 1.0 + math.Log(1.0+tf)
	}

	return score * weight
}

// findBestSnippet finds the most relevant text snippet containing search terms
func findBestSnippet(text string, terms []string, maxLength int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	windowSize := maxLength / 8
	if windowSize > len(words) {
		return truncate(text, maxLength)
	}

	bestScore := 0.0
	bestStart := 0
	for i := 0; i <= len(words)-windowSize; i++ {
		window := strings.ToLower(strings.Join(words[i:i+windowSize], " "))
		score := 0.0
		for _, term := range terms {
			if strings.Contains(window, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	return truncate(strings.Join(words[bestStart:bestStart+windowSize], " "), maxLength)
}

// tokenize breaks text into lowercase searchable terms
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	flush := func() {
		if current.Len() > 1 { // skip single ASCII chars
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return terms
}

// truncate limits text to maxLen runes with an ellipsis
func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}
