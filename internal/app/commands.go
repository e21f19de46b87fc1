package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"review_analyzer/internal/domain"
)

type SubmitService struct {
	store domain.ReviewStore
	allow domain.Allowlist
	clock clockwork.Clock
	newID func() string
}

func NewSubmitService(st domain.ReviewStore, allow domain.Allowlist, clock clockwork.Clock) *SubmitService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SubmitService{store: st, allow: allow, clock: clock, newID: uuid.NewString}
}

// Submit validates sub and appends the new review. Validation failures are
// *domain.ValidationError and leave the store untouched.
func (s *SubmitService) Submit(ctx context.Context, sub domain.Submission) (domain.Review, error) {
	if err := ctx.Err(); err != nil {
		return domain.Review{}, err
	}
	if sub.ReviewBody == "" {
		return domain.Review{}, domain.Invalid(domain.ErrEmptyBody, "Review body is required")
	}
	if !s.allow.Contains(sub.Location) {
		return domain.Review{}, domain.Invalid(domain.ErrInvalidLocation, "Invalid location")
	}

	rv := domain.Review{
		ReviewID:   s.newID(),
		ReviewBody: sub.ReviewBody,
		Location:   sub.Location,
		Timestamp:  s.clock.Now().In(time.Local).Format(domain.TimestampLayout),
	}
	// the request may have timed out while the record was built
	if err := ctx.Err(); err != nil {
		return domain.Review{}, err
	}
	s.store.Append(rv)
	return rv, nil
}
