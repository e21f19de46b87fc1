package mysql

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"review_analyzer/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// RowHash identifies a dataset row by content.
func RowHash(r domain.Review) string {
	sum := sha1.Sum([]byte(r.Location + "\x00" + r.Timestamp + "\x00" + r.ReviewBody))
	return hex.EncodeToString(sum[:])
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*5)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?)")
		args = append(args,
			RowHash(rv),         // row_hash
			valStr(rv.ReviewID), // review_id
			rv.Location,         // location
			rv.ReviewBody,       // body
			rv.Timestamp,        // created_at
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("upsert %d reviews: %w", len(rs), err)
	}
	return nil
}

// LoadReviews returns every stored review in insertion order.
func (r *Repo) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var reviewID sql.NullString
		if err := rows.Scan(&reviewID, &rv.Location, &rv.ReviewBody, &rv.Timestamp); err != nil {
			return nil, err
		}
		if reviewID.Valid {
			rv.ReviewID = reviewID.String
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
