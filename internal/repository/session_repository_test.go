package repository

import (
	"testing"
	"time"
)

func TestCloseUpdatesSparseFields(t *testing.T) {
	end := time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC)
	durationMs := int64(300000)
	last := end.Add(-2 * time.Second)

	t.Run("all fields supplied", func(t *testing.T) {
		updates := closeUpdates(&end, &durationMs, &last)
		if len(updates) != 3 {
			t.Fatalf("got %d fields, want 3: %v", len(updates), updates)
		}
		if updates["session_end"] != end {
			t.Errorf("session_end = %v, want %v", updates["session_end"], end)
		}
		if updates["session_duration_ms"] != durationMs {
			t.Errorf("session_duration_ms = %v, want %d", updates["session_duration_ms"], durationMs)
		}
		if updates["last_activity"] != last {
			t.Errorf("last_activity = %v, want %v", updates["last_activity"], last)
		}
	})

	t.Run("only end supplied", func(t *testing.T) {
		updates := closeUpdates(&end, nil, nil)
		if len(updates) != 1 {
			t.Fatalf("got %d fields, want 1: %v", len(updates), updates)
		}
		if _, ok := updates["session_end"]; !ok {
			t.Errorf("missing session_end: %v", updates)
		}
	})

	t.Run("end and duration without last activity", func(t *testing.T) {
		updates := closeUpdates(&end, &durationMs, nil)
		if len(updates) != 2 {
			t.Fatalf("got %d fields, want 2: %v", len(updates), updates)
		}
		if _, ok := updates["last_activity"]; ok {
			t.Errorf("last_activity must not be emitted when nil: %v", updates)
		}
	})

	t.Run("no fields supplied", func(t *testing.T) {
		if updates := closeUpdates(nil, nil, nil); len(updates) != 0 {
			t.Errorf("got %d fields, want 0: %v", len(updates), updates)
		}
	})
}
