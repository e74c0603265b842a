package feed

import "testing"

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		line  string
		time  float64
		value float64
	}{
		{"0.0,1.0", 0.0, 1.0},
		{"1.5,-2.25", 1.5, -2.25},
		{"10,3", 10, 3},
		{" 2.0 , 4.0 ", 2.0, 4.0},
		{"3.0,5.0\r", 3.0, 5.0}, // CRLF producer
		{"1e3,2e-3", 1000, 0.002},
	}

	for _, tt := range tests {
		sample, reason := Parse(tt.line)
		if reason != RejectNone {
			t.Errorf("Parse(%q): unexpected reject %v", tt.line, reason)
			continue
		}
		if sample.Time != tt.time {
			t.Errorf("Parse(%q): time=%g, want %g", tt.line, sample.Time, tt.time)
		}
		if sample.Value != tt.value {
			t.Errorf("Parse(%q): value=%g, want %g", tt.line, sample.Value, tt.value)
		}
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		line   string
		reason RejectReason
	}{
		{"", RejectMalformedSchema},
		{"1.0", RejectMalformedSchema},
		{"1.0,2.0,3.0", RejectMalformedSchema},
		{"abc,2.0", RejectUnparsableTime},
		{",2.0", RejectUnparsableTime},
		{"1.0,abc", RejectUnparsableValue},
		{"1.0,", RejectUnparsableValue},
		{"1.0,NaN", RejectNonFiniteValue},
		{"1.0,+Inf", RejectNonFiniteValue},
		{"1.0,-Inf", RejectNonFiniteValue},
		{"NaN,1.0", RejectNonFiniteValue},
	}

	for _, tt := range tests {
		_, reason := Parse(tt.line)
		if reason != tt.reason {
			t.Errorf("Parse(%q): reason=%v, want %v", tt.line, reason, tt.reason)
		}
	}
}

func TestRejectReason_String(t *testing.T) {
	if RejectMalformedSchema.String() != "malformed schema" {
		t.Errorf("unexpected string: %s", RejectMalformedSchema)
	}
	if RejectReason(99).String() != "unknown" {
		t.Errorf("unexpected string for invalid reason")
	}
}
