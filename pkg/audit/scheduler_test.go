package audit

import (
	"context"
	"testing"
)

func TestScheduler_IdleWithoutRetentionConfig(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		name   string
		config RetentionConfig
	}{
		{"empty schedule", RetentionConfig{Days: 30}},
		{"zero days", RetentionConfig{Schedule: "0 3 * * *"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := NewScheduler(s, tt.config)
			if err := sched.Start(context.Background()); err != nil {
				t.Errorf("Start() error: %v", err)
			}
			sched.Stop()
		})
	}
}

func TestScheduler_RejectsInvalidSchedule(t *testing.T) {
	s := openTestStore(t)
	sched := NewScheduler(s, RetentionConfig{Days: 30, Schedule: "not a cron line"})
	if err := sched.Start(context.Background()); err == nil {
		t.Error("expected invalid schedule to be rejected")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := openTestStore(t)
	sched := NewScheduler(s, RetentionConfig{Days: 30, Schedule: "0 3 * * *"})

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := sched.Start(context.Background()); err == nil {
		t.Error("second Start() should fail while running")
	}
	sched.Stop()
	sched.Stop()
}
