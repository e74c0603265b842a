package archive

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/feedwatch/feedwatch/internal/series"
)

// Summary holds aggregate statistics over archived samples.
type Summary struct {
	Count     int64
	Mean      float64
	Min       float64
	Max       float64
	FirstTime float64
	LastTime  float64
}

// Query answers aggregate questions over the archive's parquet segments
// using an in-memory DuckDB database.
type Query struct {
	db  *sql.DB
	dir string
}

// NewQuery opens an in-memory DuckDB over the given segment directory.
func NewQuery(dir string) (*Query, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &Query{db: db, dir: dir}, nil
}

// Close closes the query service.
func (q *Query) Close() error {
	return q.db.Close()
}

// glob returns the segment glob, SQL-quoted for read_parquet. DuckDB table
// functions cannot take bound parameters, so the path is escaped inline.
func (q *Query) glob() string {
	pattern := filepath.Join(q.dir, segmentPattern)
	return "'" + strings.ReplaceAll(pattern, "'", "''") + "'"
}

// hasSegments reports whether any segments exist. read_parquet errors on
// an empty glob, so callers short-circuit to an empty result instead.
func (q *Query) hasSegments() (bool, error) {
	matches, err := filepath.Glob(filepath.Join(q.dir, segmentPattern))
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// Summarize computes aggregate statistics, optionally restricted to the
// half-open feed-time range [from, to).
func (q *Query) Summarize(ctx context.Context, from, to *float64) (Summary, error) {
	ok, err := q.hasSegments()
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, nil
	}

	query := fmt.Sprintf(
		`SELECT count(*), coalesce(avg(value), 0), coalesce(min(value), 0),
		        coalesce(max(value), 0), coalesce(min(time), 0), coalesce(max(time), 0)
		 FROM read_parquet(%s)`, q.glob())

	var (
		conds []string
		args  []any
	)
	if from != nil {
		conds = append(conds, "time >= ?")
		args = append(args, *from)
	}
	if to != nil {
		conds = append(conds, "time < ?")
		args = append(args, *to)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var s Summary
	row := q.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&s.Count, &s.Mean, &s.Min, &s.Max, &s.FirstTime, &s.LastTime); err != nil {
		return Summary{}, fmt.Errorf("summarize archive: %w", err)
	}

	return s, nil
}

// Samples returns archived samples in feed-time order, up to limit
// (0 means no limit).
func (q *Query) Samples(ctx context.Context, limit int) ([]series.Sample, error) {
	ok, err := q.hasSegments()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT time, value FROM read_parquet(%s) ORDER BY time", q.glob())
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []series.Sample
	for rows.Next() {
		var s series.Sample
		if err := rows.Scan(&s.Time, &s.Value); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
