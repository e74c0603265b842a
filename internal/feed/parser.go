// Package feed turns the externally-grown feed file into validated samples.
//
// The tailer owns the read cursor into the file and yields only newly
// appended, fully terminated lines; the parser validates each line into a
// series.Sample or a rejection reason. Both tolerate an unstable producer:
// partial writes, truncation, wholesale replacement, and a file that does
// not exist yet.
package feed

import (
	"math"
	"strconv"
	"strings"

	"github.com/feedwatch/feedwatch/internal/series"
)

// RejectReason indicates why a raw line was not accepted as a sample.
type RejectReason int

const (
	// RejectNone means the line parsed successfully.
	RejectNone RejectReason = iota
	// RejectMalformedSchema means the line did not have exactly two fields.
	RejectMalformedSchema
	// RejectUnparsableTime means the time field is not a number.
	RejectUnparsableTime
	// RejectUnparsableValue means the value field is not a number.
	RejectUnparsableValue
	// RejectNonFiniteValue means the value parsed but is NaN or infinite.
	RejectNonFiniteValue
)

// String returns a human-readable representation of the RejectReason.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectMalformedSchema:
		return "malformed schema"
	case RejectUnparsableTime:
		return "unparsable time"
	case RejectUnparsableValue:
		return "unparsable value"
	case RejectNonFiniteValue:
		return "non-finite value"
	default:
		return "unknown"
	}
}

// Parse validates one raw feed line of the shape "time,value".
//
// Parse is pure: it never fails ingestion, it only reports the rejection
// reason for the caller to count and log. The header line is the tailer's
// concern and never reaches Parse.
func Parse(line string) (series.Sample, RejectReason) {
	// Producers on Windows terminate with CRLF.
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return series.Sample{}, RejectMalformedSchema
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return series.Sample{}, RejectUnparsableTime
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return series.Sample{}, RejectUnparsableValue
	}

	if math.IsNaN(v) || math.IsInf(v, 0) || math.IsNaN(t) || math.IsInf(t, 0) {
		return series.Sample{}, RejectNonFiniteValue
	}

	return series.Sample{Time: t, Value: v}, RejectNone
}
