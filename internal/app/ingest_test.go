package app_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
)

type sliceSource struct {
	rows []domain.Review
	err  error
}

func (s sliceSource) LoadReviews(context.Context) ([]domain.Review, error) { return s.rows, s.err }

type fakeRepo struct {
	mu      sync.Mutex
	batches [][]domain.Review
	failAt  string // body of a row whose batch should fail
}

func (f *fakeRepo) LoadReviews(context.Context) ([]domain.Review, error) { return nil, nil }

func (f *fakeRepo) UpsertReviews(_ context.Context, rs []domain.Review) error {
	for _, r := range rs {
		if f.failAt != "" && r.ReviewBody == f.failAt {
			return errors.New("insert failed")
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, rs)
	return nil
}

func rowsN(n int) []domain.Review {
	out := make([]domain.Review, n)
	for i := range out {
		out[i] = domain.Review{ReviewBody: string(rune('a' + i)), Location: "Denver, Colorado", Timestamp: "2021-01-01 00:00:00"}
	}
	return out
}

func TestIngest_BatchesEverything(t *testing.T) {
	repo := &fakeRepo{}
	svc := app.NewIngestionService(sliceSource{rows: rowsN(7)}, repo, 3, 3)

	n, err := svc.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	sizes := []int{}
	for _, b := range repo.batches {
		sizes = append(sizes, len(b))
	}
	sort.Ints(sizes)
	assert.Equal(t, []int{1, 3, 3}, sizes)
}

func TestIngest_ReportsBatchErrors(t *testing.T) {
	repo := &fakeRepo{failAt: "e"}
	svc := app.NewIngestionService(sliceSource{rows: rowsN(6)}, repo, 2, 2)

	n, err := svc.Ingest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch at row 4")
	assert.Equal(t, 4, n)
}

func TestIngest_SourceError(t *testing.T) {
	svc := app.NewIngestionService(sliceSource{err: errors.New("no file")}, &fakeRepo{}, 1, 1)
	_, err := svc.Ingest(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dataset")
}
