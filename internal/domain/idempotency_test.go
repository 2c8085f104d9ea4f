package domain

import (
	"testing"
	"time"
)

func TestIdempotencyStatus(t *testing.T) {
	tests := []struct {
		status   IdempotencyStatus
		valid    bool
		terminal bool
	}{
		{status: IdempotencyStatusProcessing, valid: true},
		{status: IdempotencyStatusDone, valid: true, terminal: true},
		{status: IdempotencyStatusFailed, valid: true, terminal: true},
		{status: "", valid: false},
		{status: "DONE", valid: false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			if got := tc.status.Valid(); got != tc.valid {
				t.Errorf("Valid()=%v, want %v", got, tc.valid)
			}
			if got := tc.status.Terminal(); got != tc.terminal {
				t.Errorf("Terminal()=%v, want %v", got, tc.terminal)
			}
		})
	}
}

func TestIdempotencyRecordExpiredAt(t *testing.T) {
	ttl := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	record := IdempotencyRecord{Key: "order-1", Status: IdempotencyStatusDone, TTLAt: ttl}

	if record.ExpiredAt(ttl.Add(-time.Nanosecond)) {
		t.Fatal("record must be alive before ttl")
	}
	if !record.ExpiredAt(ttl) {
		t.Fatal("record must expire exactly at ttl")
	}
	if !record.ExpiredAt(ttl.Add(time.Hour)) {
		t.Fatal("record must stay expired after ttl")
	}
	// Другая зона не влияет на сравнение.
	if !record.ExpiredAt(ttl.In(time.FixedZone("MSK", 3*60*60))) {
		t.Fatal("ExpiredAt must compare instants, not wall clock")
	}
}
