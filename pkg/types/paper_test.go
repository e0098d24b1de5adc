// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"
)

func TestNewDateRange(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	r, err := NewDateRange(day(2024, 1, 1), day(2024, 1, 31))
	if err != nil {
		t.Fatalf("NewDateRange: %v", err)
	}
	if r.String() != "2024-01-01 to 2024-01-31" {
		t.Errorf("String() = %q", r.String())
	}

	// A single-day range is valid.
	if _, err := NewDateRange(day(2024, 1, 1), day(2024, 1, 1)); err != nil {
		t.Errorf("single-day range should be valid: %v", err)
	}

	// Start after end is rejected.
	if _, err := NewDateRange(day(2024, 2, 1), day(2024, 1, 1)); err == nil {
		t.Error("expected error for start after end")
	}

	// Time-of-day is truncated before comparison.
	r, err = NewDateRange(
		time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("same calendar day should be valid: %v", err)
	}
	if !r.Start.Equal(r.End) {
		t.Errorf("truncated endpoints should coincide: %v", r)
	}
}

func TestLastDays(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

	r, err := LastDays(7, today)
	if err != nil {
		t.Fatalf("LastDays: %v", err)
	}
	if want := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC); !r.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", r.Start, want)
	}
	if want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC); !r.End.Equal(want) {
		t.Errorf("End = %v, want %v", r.End, want)
	}

	for _, days := range []int{0, -3} {
		if _, err := LastDays(days, today); err == nil {
			t.Errorf("LastDays(%d) should be rejected", days)
		}
	}
}

func TestJournalStatusOK(t *testing.T) {
	if !(JournalStatus{Journal: "Nature", Count: 0}).OK() {
		t.Error("zero matches is still a success")
	}
	if (JournalStatus{Journal: "Cell", Err: "boom"}).OK() {
		t.Error("a recorded error is a failure")
	}
}
