package sentiment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/domain"
)

var analyzer = NewAnalyzer()

// Reference compound scores published for VADER.
func TestPolarityScores_ReferenceCompound(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"VADER is smart, handsome, and funny.", 0.8316},
		{"VADER is smart, handsome, and funny!", 0.8439},
		{"VADER is very smart, handsome, and funny.", 0.8545},
		{"VADER is VERY SMART, handsome, and FUNNY.", 0.9227},
		{"The book was good.", 0.4404},
		{"A really bad, horrible book.", -0.8211},
		{"Today SUX!", -0.5461},
		{"The staff was unpleasant and the lobby was shabby.", -0.4588},
		{"Mediocre at best, I would not come back.", 0.6369},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.InDelta(t, tt.want, analyzer.PolarityScores(tt.text).Compound, 1e-4)
		})
	}
}

func TestPolarityScores_ReferenceBreakdown(t *testing.T) {
	got := analyzer.PolarityScores("VADER is smart, handsome, and funny.")
	assert.InDelta(t, 0.0, got.Negative, 1e-3)
	assert.InDelta(t, 0.254, got.Neutral, 1e-3)
	assert.InDelta(t, 0.746, got.Positive, 1e-3)

	got = analyzer.PolarityScores("A really bad, horrible book.")
	assert.InDelta(t, 0.791, got.Negative, 1e-3)
	assert.InDelta(t, 0.209, got.Neutral, 1e-3)
	assert.InDelta(t, 0.0, got.Positive, 1e-3)
}

func TestPolarityScores_NeutralText(t *testing.T) {
	s := analyzer.PolarityScores("The room is on the third floor")
	assert.Zero(t, s.Compound)
	assert.Zero(t, s.Negative)
	assert.Zero(t, s.Positive)
}

func TestPolarityScores_Blank(t *testing.T) {
	assert.Equal(t, domain.Sentiment{}, analyzer.PolarityScores("   "))
}

func TestPolarityScores_Ordering(t *testing.T) {
	great := analyzer.PolarityScores("Great pool, lovely staff!").Compound
	good := analyzer.PolarityScores("Good breakfast").Compound
	bad := analyzer.PolarityScores("Terrible, dirty room and rude staff").Compound
	assert.Greater(t, great, good)
	assert.Greater(t, good, 0.0)
	assert.Less(t, bad, 0.0)
	assert.Less(t, analyzer.PolarityScores("the breakfast wasn't good").Compound, 0.0)
}

func TestPolarityScores_RangeAndProportions(t *testing.T) {
	inputs := []string{
		"BEST HOTEL EVER!!!! absolutely perfect, amazing, wonderful, superb",
		"worst, filthy, disgusting, horrible, rude staff, never again!!!!",
		"ok",
		"Good location but expensive",
	}
	for _, in := range inputs {
		s := analyzer.PolarityScores(in)
		assert.GreaterOrEqual(t, s.Compound, -1.0, in)
		assert.LessOrEqual(t, s.Compound, 1.0, in)
		assert.InDelta(t, 1.0, s.Negative+s.Neutral+s.Positive, 0.01, in)
	}
}

func TestAnalyzer_ScoreConcurrentAndDeterministic(t *testing.T) {
	text := "Lovely place, but the parking was a problem"
	first, err := analyzer.Score(context.Background(), text)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := analyzer.Score(context.Background(), text)
			assert.NoError(t, err)
			assert.Equal(t, first, again)
		}()
	}
	wg.Wait()
}
