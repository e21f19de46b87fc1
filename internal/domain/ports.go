package domain

import "context"

// ReviewStore is the process-wide ordered review collection.
type ReviewStore interface {
	Append(r Review)
	// Snapshot returns a copy that concurrent appends cannot affect.
	Snapshot() []Review
	Len() int
}

// SeedSource yields the dataset loaded into the store before serving.
type SeedSource interface {
	LoadReviews(ctx context.Context) ([]Review, error)
}

// ReviewRepository is the MySQL-side dataset used by the ingestor.
type ReviewRepository interface {
	SeedSource
	UpsertReviews(ctx context.Context, rs []Review) error
}

// Scorer computes sentiment for a review body.
type Scorer interface {
	Score(ctx context.Context, text string) (Sentiment, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}

// ReviewQuery carries the GET filters. Location is applied only when allowlisted.
type ReviewQuery struct {
	Location string
	Range    TimeRange
}

// Submission is an unvalidated POST payload.
type Submission struct {
	ReviewBody string
	Location   string
}
