package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_analyzer/internal/domain"
)

// IngestionService copies a dataset into the review repository in batches.
type IngestionService struct {
	src       domain.SeedSource
	repo      domain.ReviewRepository
	workers   int
	batchSize int
}

func NewIngestionService(src domain.SeedSource, repo domain.ReviewRepository, workers, batchSize int) *IngestionService {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	return &IngestionService{src: src, repo: repo, workers: workers, batchSize: batchSize}
}

// Ingest returns the number of rows written. Batches run concurrently, so
// on failure some batches may already be stored; re-running is idempotent.
func (s *IngestionService) Ingest(ctx context.Context) (int, error) {
	rows, err := s.src.LoadReviews(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}

	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		written int
	)

	for start := 0; start < len(rows); start += s.batchSize {
		batch := rows[start:min(start+s.batchSize, len(rows))]

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(offset int, batch []domain.Review) {
			defer wg.Done()
			defer sem.Release(1)

			err := s.repo.UpsertReviews(ctx, batch)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Int("offset", offset).Int("rows", len(batch)).Err(err).Msg("batch failed")
				errs = append(errs, fmt.Errorf("batch at row %d: %w", offset, err))
				return
			}
			written += len(batch)
			log.Debug().Int("offset", offset).Int("rows", len(batch)).Msg("batch ok")
		}(start, batch)
	}

	wg.Wait()
	return written, errors.Join(errs...)
}
