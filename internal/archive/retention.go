package archive

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// retentionCheckInterval is how often the retention pass runs.
const retentionCheckInterval = time.Hour

// CleanupResult holds the result of one retention pass.
type CleanupResult struct {
	FilesDeleted int
	BytesFreed   int64
	Errors       []error
}

// Retention removes archive segments older than a maximum age, judged by
// segment file modification time.
type Retention struct {
	dir    string
	maxAge time.Duration
}

// NewRetention creates a retention manager. maxAge <= 0 disables cleanup.
func NewRetention(dir string, maxAge time.Duration) *Retention {
	return &Retention{dir: dir, maxAge: maxAge}
}

// RunCleanup deletes expired segments once and reports what it removed.
func (r *Retention) RunCleanup() CleanupResult {
	var result CleanupResult
	if r.maxAge <= 0 {
		return result
	}

	cutoff := time.Now().Add(-r.maxAge)

	matches, err := filepath.Glob(filepath.Join(r.dir, segmentPattern))
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result
	}

	for _, path := range matches {
		fi, err := os.Stat(path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if fi.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.FilesDeleted++
		result.BytesFreed += fi.Size()
	}

	if result.FilesDeleted > 0 {
		log.Info("retention cleanup", "deleted", result.FilesDeleted, "bytes_freed", result.BytesFreed)
	}

	return result
}

// Run performs periodic cleanup until ctx is cancelled.
func (r *Retention) Run(ctx context.Context) error {
	if r.maxAge <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(retentionCheckInterval)
	defer ticker.Stop()

	r.RunCleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.RunCleanup()
		}
	}
}
