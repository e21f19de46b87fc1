package dataset

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_analyzer/internal/domain"
)

const (
	maxAttempts     = 4
	maxDatasetBytes = 64 << 20
)

var (
	ErrUnauthorized = errors.New("dataset: unauthorized")
	ErrForbidden    = errors.New("dataset: forbidden")
)

// RemoteSource downloads the CSV dataset over HTTP(S).
type RemoteSource struct {
	url string
	hc  *http.Client
	rl  *rate.Limiter
}

func NewRemoteSource(url string, rps int) *RemoteSource {
	if rps <= 0 {
		rps = 5
	}
	return &RemoteSource{
		url: url,
		hc:  &http.Client{Timeout: 30 * time.Second},
		rl:  rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// NewSource picks a RemoteSource for http(s) locations and a CSVSource otherwise.
func NewSource(location string) domain.SeedSource {
	if IsRemote(location) {
		return NewRemoteSource(location, 0)
	}
	return NewCSVSource(location)
}

func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func (s *RemoteSource) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	raw, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", s.url, err)
	}
	return Read(ctx, bytes.NewReader(raw))
}

// fetch GETs the dataset, retrying on 429 and transient 5xx and honoring
// Retry-After when present.
func (s *RemoteSource) fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if err := s.rl.Wait(ctx); err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/csv")
		req.Header.Set("User-Agent", "review-analyzer/1.0")

		resp, err := s.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			b, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes+1))
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			if len(b) > maxDatasetBytes {
				return nil, fmt.Errorf("dataset exceeds %d bytes", maxDatasetBytes)
			}
			return b, nil

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return nil, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date); 0 if absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 100ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
