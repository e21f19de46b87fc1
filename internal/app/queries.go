package app

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"review_analyzer/internal/domain"
)

type QueryService struct {
	store  domain.ReviewStore
	scorer domain.Scorer
	allow  domain.Allowlist
}

func NewQueryService(st domain.ReviewStore, sc domain.Scorer, allow domain.Allowlist) *QueryService {
	return &QueryService{store: st, scorer: sc, allow: allow}
}

// ListReviews filters a store snapshot, scores each match and orders the
// result by compound score, highest first. Ties keep store order.
//
// A location outside the allowlist is ignored rather than rejected: reads
// never fail on location, only writes do.
func (s *QueryService) ListReviews(ctx context.Context, q domain.ReviewQuery) ([]domain.ScoredReview, error) {
	snap := s.store.Snapshot()

	byLocation := q.Location != "" && s.allow.Contains(q.Location)
	byTime := !q.Range.IsZero()

	out := make([]domain.ScoredReview, 0, len(snap))
	for _, rv := range snap {
		if byLocation && rv.Location != q.Location {
			continue
		}
		if byTime {
			ts, err := rv.Time()
			if err != nil || !q.Range.Contains(ts) {
				continue
			}
		}
		out = append(out, domain.ScoredReview{Review: rv})
	}

	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sent, err := s.scorer.Score(ctx, out[i].ReviewBody)
		if err != nil {
			return nil, fmt.Errorf("score review %q: %w", out[i].ReviewID, err)
		}
		out[i].Sentiment = sent
	}

	slices.SortStableFunc(out, func(a, b domain.ScoredReview) int {
		return cmp.Compare(b.Sentiment.Compound, a.Sentiment.Compound)
	})
	return out, nil
}
