package mysql

// Rows are deduplicated on row_hash so re-running the ingestor is idempotent.
// created_at is written from the dataset's "YYYY-MM-DD HH:MM:SS" string as-is.
const insertReviewsPrefix = "INSERT INTO reviews\n  (row_hash, review_id, location, body, created_at)\nVALUES "

const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  review_id = COALESCE(VALUES(review_id), reviews.review_id)\n"

// Insertion order is the store order, so seed by id.
const listReviewsSQL = `
SELECT
  review_id,
  location,
  body,
  DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
FROM reviews
ORDER BY id
`
