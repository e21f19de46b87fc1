package domain

import "time"

// TimestampLayout is the wire format of Review.Timestamp (YYYY-MM-DD HH:MM:SS).
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the format of the start_date / end_date query bounds.
const DateLayout = "2006-01-02"

// Review is one stored unit of feedback. Fields never change after Append.
type Review struct {
	ReviewID   string `json:"ReviewId,omitempty"` // empty for seed rows without one
	ReviewBody string `json:"ReviewBody"`
	Location   string `json:"Location"`
	Timestamp  string `json:"Timestamp"`
}

// Time parses Timestamp in the server's local zone.
func (r Review) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

// Sentiment is the polarity breakdown produced by a Scorer.
// Compound is normalized to [-1, 1]; the proportions sum to ~1.
type Sentiment struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// ScoredReview is the response copy of a Review with its transient sentiment.
type ScoredReview struct {
	Review
	Sentiment Sentiment `json:"sentiment"`
}
