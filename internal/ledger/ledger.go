// Package ledger provides the durable, append-only collection of operator
// flags.
//
// A flag annotates the sample that was latest at the moment the operator
// created it. Flags reference that sample's time by value, not by live
// reference: a reloaded ledger is valid even when the series store has not
// (or will never have) ingested that point again. There is no update or
// delete operation.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/feedwatch/feedwatch/internal/errors"
	"github.com/feedwatch/feedwatch/internal/logging"
	"github.com/feedwatch/feedwatch/internal/series"
)

var log = logging.Component("ledger")

// header is the first record of a fresh ledger file. Only the first two
// columns are required on load; older files without created_at/id columns
// still load.
var header = []string{"time", "description", "created_at", "id"}

// Flag is one operator annotation. Immutable once created.
type Flag struct {
	// ID uniquely identifies the record.
	ID string

	// Time is the feed timestamp of the annotated sample, copied by value.
	Time float64

	// Description is the operator's text, non-empty after trimming.
	Description string

	// CreatedAt is the wall-clock time of the flag action.
	CreatedAt time.Time
}

// LatestSource yields the sample a new flag annotates. Satisfied by
// *series.Store.
type LatestSource interface {
	Latest() (series.Sample, bool)
}

// Ledger is the in-memory view plus the persisted file.
//
// Ledger is safe for concurrent use. Create holds the ledger mutex across
// the durable write; flag writes are rare and small, so they run
// synchronously on the caller.
type Ledger struct {
	mu     sync.Mutex
	path   string
	source LatestSource
	flags  []Flag

	file *os.File
	csv  *csv.Writer
}

// Open loads the ledger at path, creating the file (and its directory) if
// needed, and returns it ready for Create calls. Malformed persisted rows
// are skipped with a warning, not fatal.
func Open(path string, source LatestSource) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create ledger dir")
	}

	flags, err := Load(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "open ledger")
	}

	l := &Ledger{
		path:   path,
		source: source,
		flags:  flags,
		file:   f,
		csv:    csv.NewWriter(f),
	}

	// A fresh file gets the header up front so the format is
	// self-describing for external tools.
	if fi, err := f.Stat(); err == nil && fi.Size() == 0 {
		if err := l.append(header); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "write ledger header")
		}
	}

	return l, nil
}

// Load reads all well-formed flags from an existing ledger file without
// opening it for writing. A missing file is an empty ledger.
func Load(path string) ([]Flag, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open ledger")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var flags []Flag
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable ledger row", "line", line, "error", err)
			continue
		}
		if line == 1 && len(record) > 0 && record[0] == "time" {
			continue // header
		}

		flag, ok := parseRecord(record)
		if !ok {
			log.Warn("skipping malformed ledger row", "line", line)
			continue
		}
		flags = append(flags, flag)
	}

	return flags, nil
}

// parseRecord maps one persisted record to a Flag. At least time and
// description are required.
func parseRecord(record []string) (Flag, bool) {
	if len(record) < 2 {
		return Flag{}, false
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return Flag{}, false
	}

	desc := record[1]
	if strings.TrimSpace(desc) == "" {
		return Flag{}, false
	}

	flag := Flag{Time: t, Description: desc}
	if len(record) > 2 {
		if ts, err := time.Parse(time.RFC3339Nano, record[2]); err == nil {
			flag.CreatedAt = ts
		}
	}
	if len(record) > 3 {
		flag.ID = record[3]
	}

	return flag, true
}

// Create validates the description, captures the latest sample's time, and
// durably appends the new flag. The in-memory flag only exists once the
// write has reached disk; on persistence failure the caller may retry.
func (l *Ledger) Create(description string) (Flag, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Flag{}, errors.ErrEmptyDescription
	}

	latest, ok := l.source.Latest()
	if !ok {
		return Flag{}, errors.ErrNoData
	}

	flag := Flag{
		ID:          uuid.NewString(),
		Time:        latest.Time,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	record := []string{
		strconv.FormatFloat(flag.Time, 'g', -1, 64),
		flag.Description,
		flag.CreatedAt.Format(time.RFC3339Nano),
		flag.ID,
	}
	if err := l.append(record); err != nil {
		return Flag{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	l.flags = append(l.flags, flag)
	log.Info("flag created", "time", flag.Time, "description", flag.Description)

	return flag, nil
}

// append writes one record and forces it to disk before returning.
func (l *Ledger) append(record []string) error {
	if err := l.csv.Write(record); err != nil {
		return err
	}
	l.csv.Flush()
	if err := l.csv.Error(); err != nil {
		return err
	}
	return l.file.Sync()
}

// Flags returns a copy of all flags in creation order.
func (l *Ledger) Flags() []Flag {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Flag, len(l.flags))
	copy(out, l.flags)
	return out
}

// Len returns the number of flags.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.flags)
}

// Close releases the ledger file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.csv.Flush()
	return l.file.Close()
}
