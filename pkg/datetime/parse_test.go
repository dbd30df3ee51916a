package datetime

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"Valid ISO date", "2025-06-15", true},
		{"Empty string", "", false},
		{"Wrong layout", "06/15/2025", false},
		{"Timestamp not accepted", "2025-06-15T10:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if ok && parsed.Format(DateLayout) != tt.input {
				t.Errorf("ParseDate(%q) = %v, round trip mismatch", tt.input, parsed)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	first := MustParseTime(DateLayout, "2025-06-01")
	last := MustParseTime(DateLayout, "2025-06-11")

	if got := DaysBetween(first, last); got != 10 {
		t.Errorf("DaysBetween = %d, expected 10", got)
	}
	if got := DaysBetween(first, first); got != 0 {
		t.Errorf("DaysBetween same day = %d, expected 0", got)
	}
}

func TestOffsetDays(t *testing.T) {
	start := MustParseTime(DateLayout, "2025-06-28")
	expected := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)

	if got := OffsetDays(start, 5); !got.Equal(expected) {
		t.Errorf("OffsetDays = %v, expected %v", got, expected)
	}
}
