package service

import (
	"testing"
	"time"

	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestEnsureSubmittable(t *testing.T) {
	tests := []struct {
		name    string
		status  model.AttemptStatus
		ownerID uint
		caller  uint
		wantErr error
	}{
		{"in progress by owner", model.AttemptInProgress, 7, 7, nil},
		{"second submit rejected", model.AttemptCompleted, 7, 7, util.ErrAttemptAlreadySubmitted},
		{"timed out attempt rejected", model.AttemptTimeout, 7, 7, util.ErrAttemptAlreadySubmitted},
		{"abandoned attempt rejected", model.AttemptAbandoned, 7, 7, util.ErrAttemptAlreadySubmitted},
		{"wrong owner forbidden", model.AttemptInProgress, 7, 8, util.ErrPermissionDenied},
		{"ownership checked before status", model.AttemptCompleted, 7, 8, util.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt := &model.QuizAttempt{UserID: tt.ownerID, Status: tt.status}
			if got := ensureSubmittable(attempt, tt.caller); got != tt.wantErr {
				t.Errorf("ensureSubmittable() = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestResolveTimeTaken(t *testing.T) {
	tests := []struct {
		name        string
		req         SubmitAttemptRequest
		wantSec     int
		wantMs      int64
		wantPresent bool
	}{
		{
			name:        "milliseconds take precedence",
			req:         SubmitAttemptRequest{TimeSpent: intPtr(99), TimeSpentMs: int64Ptr(83450)},
			wantSec:     83,
			wantMs:      83450,
			wantPresent: true,
		},
		{
			name:        "milliseconds round half up",
			req:         SubmitAttemptRequest{TimeSpentMs: int64Ptr(2500)},
			wantSec:     3,
			wantMs:      2500,
			wantPresent: true,
		},
		{
			name:        "seconds only",
			req:         SubmitAttemptRequest{TimeSpent: intPtr(45)},
			wantSec:     45,
			wantMs:      45000,
			wantPresent: true,
		},
		{
			name:        "no client time",
			req:         SubmitAttemptRequest{},
			wantSec:     0,
			wantMs:      0,
			wantPresent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, ms, present := resolveTimeTaken(tt.req)
			if sec != tt.wantSec || ms != tt.wantMs || present != tt.wantPresent {
				t.Errorf("resolveTimeTaken() = (%d, %d, %v), want (%d, %d, %v)",
					sec, ms, present, tt.wantSec, tt.wantMs, tt.wantPresent)
			}
		})
	}
}

func TestResolveCompletedAt(t *testing.T) {
	startedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	serverNow := time.Date(2025, 6, 1, 10, 5, 30, 0, time.UTC)

	t.Run("client time anchors to started_at", func(t *testing.T) {
		got := resolveCompletedAt(startedAt, serverNow, 120, true)
		want := startedAt.Add(2 * time.Minute)
		if !got.Equal(want) {
			t.Errorf("resolveCompletedAt() = %v, want %v", got, want)
		}
	})

	t.Run("no client time falls back to server clock", func(t *testing.T) {
		got := resolveCompletedAt(startedAt, serverNow, 0, false)
		if !got.Equal(serverNow) {
			t.Errorf("resolveCompletedAt() = %v, want %v", got, serverNow)
		}
	})
}
