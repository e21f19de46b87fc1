package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

// scoreKeyVersion changes whenever the scorer's output for a given text may change.
const scoreKeyVersion = "v2"

// CachedScorer memoizes scores by text hash. Reviews are immutable, so a
// cached score is never stale for its key. Cache failures fall back to scoring.
type CachedScorer struct {
	next  domain.Scorer
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedScorer(next domain.Scorer, cache domain.Cache, ttl time.Duration) *CachedScorer {
	return &CachedScorer{next: next, cache: cache, ttl: ttl}
}

func ScoreKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return "sentiment:" + scoreKeyVersion + ":" + hex.EncodeToString(sum[:])
}

func (s *CachedScorer) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	key := ScoreKey(text)
	var out domain.Sentiment
	if s.cache != nil {
		ok, err := s.cache.Get(ctx, key, &out)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("sentiment cache get failed")
		} else if ok {
			return out, nil
		}
	}

	start := time.Now()
	out, err := s.next.Score(ctx, text)
	if err != nil {
		return domain.Sentiment{}, err
	}
	observability.ObserveSentiment(time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, int(s.ttl.Seconds())); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("sentiment cache set failed")
		}
	}
	return out, nil
}
