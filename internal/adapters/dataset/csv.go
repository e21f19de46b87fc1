// Package dataset reads the tabular seed file of reviews.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

const (
	colID        = "ReviewId"
	colBody      = "ReviewBody"
	colLocation  = "Location"
	colTimestamp = "Timestamp"
)

// CSVSource loads reviews from a CSV file with a header row.
type CSVSource struct{ path string }

func NewCSVSource(path string) *CSVSource { return &CSVSource{path: path} }

func (s *CSVSource) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(ctx, f)
}

// Read parses CSV rows into reviews in file order. Columns are located by
// header name; ReviewId is optional. Rows with an empty body or a Timestamp
// not in YYYY-MM-DD HH:MM:SS form are skipped with a warning.
func Read(ctx context.Context, r io.Reader) ([]domain.Review, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("dataset is empty: header row missing")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{colBody, colLocation, colTimestamp} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset missing required column %q", col)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var out []domain.Review
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		rv := domain.Review{
			ReviewID:   strings.TrimSpace(field(rec, colID)),
			ReviewBody: field(rec, colBody),
			Location:   field(rec, colLocation),
			Timestamp:  strings.TrimSpace(field(rec, colTimestamp)),
		}
		if rv.ReviewBody == "" {
			log.Warn().Int("row", line).Msg("dataset row skipped: empty ReviewBody")
			continue
		}
		if _, err := rv.Time(); err != nil {
			log.Warn().Int("row", line).Str("timestamp", rv.Timestamp).Msg("dataset row skipped: bad Timestamp")
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}
