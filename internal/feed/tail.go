package feed

import (
	"bytes"
	"io"
	"os"

	"github.com/feedwatch/feedwatch/internal/logging"
)

var log = logging.Component("feed")

// RawLine is one newly appended, fully terminated line from the feed file.
type RawLine struct {
	// Text is the line without its terminator.
	Text string

	// Offset is the byte offset of the line's first byte in the file.
	Offset int64
}

// TailStats holds tailer statistics.
type TailStats struct {
	Polls     int64
	Resets    int64
	BytesRead int64
	LinesRead int64
	IOErrors  int64
}

// Tailer owns the read cursor into the feed file.
//
// The cursor is a byte offset plus a file identity: the os.FileInfo of the
// file at the last successful poll, compared with os.SameFile. The offset
// only ever increases while the identity is unchanged; when the file is
// replaced or truncated the cursor resets to zero and the header is
// skipped again.
//
// Tailer is not safe for concurrent use; the ingestion loop is its only
// caller.
type Tailer struct {
	path string

	offset        int64
	info          os.FileInfo // identity at last poll; nil before first sight
	headerSkipped bool

	stats TailStats
}

// NewTailer creates a tailer for the given feed path. The file does not
// need to exist yet.
func NewTailer(path string) *Tailer {
	return &Tailer{path: path}
}

// Poll returns the newly appended, fully terminated lines since the last
// successful poll. The header line is consumed but never returned.
//
// Expected transient conditions (file missing, briefly locked, truncated
// then growing) yield an empty result and are retried on the next poll;
// Poll never returns an error.
func (t *Tailer) Poll() []RawLine {
	t.stats.Polls++

	fi, err := os.Stat(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.stats.IOErrors++
			log.Debug("stat feed failed", "path", t.path, "error", err)
		}
		// A vanished file is the producer restarting; forget the old
		// identity so the replacement is read from the start.
		if t.info != nil {
			t.reset("feed file removed")
		}
		return nil
	}

	if t.info != nil && !os.SameFile(t.info, fi) {
		t.reset("feed file replaced")
	} else if fi.Size() < t.offset {
		t.reset("feed file truncated")
	}
	t.info = fi

	if fi.Size() == t.offset {
		return nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		t.stats.IOErrors++
		log.Debug("open feed failed", "path", t.path, "error", err)
		return nil
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		t.stats.IOErrors++
		log.Debug("seek feed failed", "offset", t.offset, "error", err)
		return nil
	}

	chunk, err := io.ReadAll(f)
	if err != nil {
		t.stats.IOErrors++
		log.Debug("read feed failed", "error", err)
		return nil
	}

	// Only consume up to the last terminator. A trailing fragment is a
	// write in progress; it stays in the file past the cursor and is
	// re-attempted once terminated.
	end := bytes.LastIndexByte(chunk, '\n')
	if end < 0 {
		return nil
	}
	chunk = chunk[:end+1]

	base := t.offset
	t.offset += int64(len(chunk))
	t.stats.BytesRead += int64(len(chunk))

	var lines []RawLine
	pos := base
	for len(chunk) > 0 {
		nl := bytes.IndexByte(chunk, '\n')
		text := string(chunk[:nl])
		if pos == 0 && !t.headerSkipped {
			t.headerSkipped = true
		} else {
			lines = append(lines, RawLine{Text: text, Offset: pos})
			t.stats.LinesRead++
		}
		pos += int64(nl + 1)
		chunk = chunk[nl+1:]
	}

	return lines
}

// reset rewinds the cursor to the start of a fresh file.
func (t *Tailer) reset(reason string) {
	log.Info("cursor reset", "reason", reason, "old_offset", t.offset)
	t.offset = 0
	t.info = nil
	t.headerSkipped = false
	t.stats.Resets++
}

// Offset returns the current cursor offset.
func (t *Tailer) Offset() int64 {
	return t.offset
}

// Stats returns a copy of the tailer statistics.
func (t *Tailer) Stats() TailStats {
	return t.stats
}
