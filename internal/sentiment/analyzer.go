// Package sentiment scores review text with VADER (valence lexicon plus
// rules for boosters, negation, contrastive "but", caps and punctuation).
package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"review_analyzer/internal/domain"
)

// Analyzer wraps a govader analyzer. The lexicon is loaded once and only
// read afterwards, so one Analyzer serves all requests.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score never fails; the error return satisfies domain.Scorer.
func (a *Analyzer) Score(_ context.Context, text string) (domain.Sentiment, error) {
	return a.PolarityScores(text), nil
}

// PolarityScores returns neg/neu/pos rounded to 3 places and compound to 4.
// Blank text scores all zeros.
func (a *Analyzer) PolarityScores(text string) domain.Sentiment {
	if strings.TrimSpace(text) == "" {
		return domain.Sentiment{}
	}
	s := a.vader.PolarityScores(text)
	return domain.Sentiment{
		Negative: round(s.Negative, 3),
		Neutral:  round(s.Neutral, 3),
		Positive: round(s.Positive, 3),
		Compound: round(s.Compound, 4),
	}
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
