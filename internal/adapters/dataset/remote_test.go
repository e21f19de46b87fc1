package dataset_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/adapters/dataset"
	"review_analyzer/internal/domain"
)

const remoteCSV = "ReviewBody,Location,Timestamp\n" +
	"Great stay,\"Denver, Colorado\",2021-01-12 09:14:31\n" +
	"Too hot,\"Phoenix, Arizona\",2021-02-03 17:45:02\n"

func TestRemoteSource_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(remoteCSV))
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := dataset.NewRemoteSource(ts.URL, 100).LoadReviews(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Great stay", got[0].ReviewBody)
	assert.Equal(t, "Phoenix, Arizona", got[1].Location)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&hits), int32(3))
}

func TestRemoteSource_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusUnauthorized, dataset.ErrUnauthorized},
		{http.StatusForbidden, dataset.ErrForbidden},
	}
	for _, tt := range tests {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := dataset.NewRemoteSource(ts.URL, 100).LoadReviews(context.Background())
		ts.Close()
		assert.True(t, errors.Is(err, tt.want), "status %d: got %v", tt.status, err)
	}
}

func TestRemoteSource_ContextCanceled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := dataset.NewRemoteSource(ts.URL, 100).LoadReviews(ctx)
	assert.Error(t, err)
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, &dataset.RemoteSource{}, dataset.NewSource("https://example.com/reviews.csv"))
	assert.IsType(t, &dataset.CSVSource{}, dataset.NewSource("data/reviews.csv"))
	assert.True(t, dataset.IsRemote("HTTP://x"))
	assert.False(t, dataset.IsRemote("./http.csv"))
}
