package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feedwatch/feedwatch/internal/errors"
	"github.com/feedwatch/feedwatch/internal/series"
)

// stubSource provides a fixed latest sample.
type stubSource struct {
	sample series.Sample
	ok     bool
}

func (s stubSource) Latest() (series.Sample, bool) {
	return s.sample, s.ok
}

func TestLedger_CreateWithoutData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")
	l, err := Open(path, stubSource{ok: false})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	_, err = l.Create("spike")
	if !errors.Is(err, errors.ErrNoData) {
		t.Errorf("err=%v, want ErrNoData", err)
	}
	if l.Len() != 0 {
		t.Errorf("ledger should be empty, has %d", l.Len())
	}
}

func TestLedger_CreateEmptyDescription(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")
	l, err := Open(path, stubSource{sample: series.Sample{Time: 1, Value: 2}, ok: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	for _, desc := range []string{"", "   ", "\t\n"} {
		if _, err := l.Create(desc); !errors.Is(err, errors.ErrEmptyDescription) {
			t.Errorf("Create(%q): err=%v, want ErrEmptyDescription", desc, err)
		}
	}
	if l.Len() != 0 {
		t.Errorf("ledger should be empty, has %d", l.Len())
	}
}

func TestLedger_CreateAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")

	l, err := Open(path, stubSource{sample: series.Sample{Time: 2.0, Value: 3.0}, ok: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	flag, err := l.Create("spike")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if flag.Time != 2.0 || flag.Description != "spike" {
		t.Errorf("flag=%+v", flag)
	}
	if flag.ID == "" || flag.CreatedAt.IsZero() {
		t.Errorf("flag missing id or created_at: %+v", flag)
	}
	l.Close()

	// A fresh process with a fresh series store still sees the flag.
	reloaded, err := Open(path, stubSource{ok: false})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reloaded.Close()

	flags := reloaded.Flags()
	if len(flags) != 1 {
		t.Fatalf("expected 1 flag after reload, got %d", len(flags))
	}
	got := flags[0]
	if got.Time != 2.0 || got.Description != "spike" {
		t.Errorf("reloaded flag=%+v", got)
	}
	if got.ID != flag.ID {
		t.Errorf("id=%q, want %q", got.ID, flag.ID)
	}
	if !got.CreatedAt.Equal(flag.CreatedAt) {
		t.Errorf("created_at=%v, want %v", got.CreatedAt, flag.CreatedAt)
	}
}

func TestLedger_AppendAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")

	l, err := Open(path, stubSource{sample: series.Sample{Time: 1.0}, ok: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := l.Create("first"); err != nil {
		t.Fatalf("create: %v", err)
	}
	l.Close()

	l2, err := Open(path, stubSource{sample: series.Sample{Time: 2.0}, ok: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := l2.Create("second"); err != nil {
		t.Fatalf("create after reopen: %v", err)
	}
	l2.Close()

	flags, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(flags) != 2 {
		t.Fatalf("expected 2 flags, got %d", len(flags))
	}
	if flags[0].Description != "first" || flags[1].Description != "second" {
		t.Errorf("flags=%v", flags)
	}
}

func TestLedger_LoadSkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")
	content := strings.Join([]string{
		"time,description,created_at,id",
		"1.5,good flag,2024-01-02T03:04:05Z,abc",
		"not-a-number,bad time",
		"2.5",      // too few fields
		"3.5,   ",  // blank description
		"4.5,also good",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	flags, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(flags) != 2 {
		t.Fatalf("expected 2 well-formed flags, got %d: %v", len(flags), flags)
	}
	if flags[0].Time != 1.5 || flags[1].Time != 4.5 {
		t.Errorf("flags=%v", flags)
	}
}

func TestLedger_LoadMissingFile(t *testing.T) {
	flags, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(flags) != 0 {
		t.Errorf("expected empty ledger, got %d", len(flags))
	}
}

func TestLedger_DescriptionWithCommasAndQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.csv")

	l, err := Open(path, stubSource{sample: series.Sample{Time: 1.0}, ok: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	desc := `spike, then "drop"`
	if _, err := l.Create(desc); err != nil {
		t.Fatalf("create: %v", err)
	}
	l.Close()

	flags, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(flags) != 1 || flags[0].Description != desc {
		t.Errorf("flags=%v, want description %q", flags, desc)
	}
}
