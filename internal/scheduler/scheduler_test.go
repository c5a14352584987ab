package scheduler

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type countingRunner struct {
	calls int
	err   error
}

func (r *countingRunner) RunCycle(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestCronSpecFromClock(t *testing.T) {
	tests := []struct {
		clock   string
		want    string
		wantErr bool
	}{
		{clock: "11:00", want: "0 11 * * *"},
		{clock: "00:00", want: "0 0 * * *"},
		{clock: "23:59", want: "59 23 * * *"},
		{clock: "09:05", want: "5 9 * * *"},
		{clock: "24:00", wantErr: true},
		{clock: "11:60", wantErr: true},
		{clock: "eleven", wantErr: true},
		{clock: "11", wantErr: true},
		{clock: "", wantErr: true},
		{clock: "-1:30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := cronSpecFromClock(tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("cronSpecFromClock(%q) expected error, got %q", tt.clock, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("cronSpecFromClock(%q) error: %v", tt.clock, err)
			}
			if got != tt.want {
				t.Errorf("cronSpecFromClock(%q) = %q, want %q", tt.clock, got, tt.want)
			}
		})
	}
}

func TestNewRejectsBadInputs(t *testing.T) {
	runner := &countingRunner{}
	logger := zap.NewNop()

	if _, err := New(runner, logger, "11:00", "Not/AZone"); err == nil {
		t.Error("expected error for unknown timezone")
	}
	if _, err := New(runner, logger, "25:00", "Asia/Karachi"); err == nil {
		t.Error("expected error for invalid clock time")
	}
}

func TestRunNowDelegatesToRunner(t *testing.T) {
	runner := &countingRunner{}
	driver, err := New(runner, zap.NewNop(), "11:00", "UTC")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := driver.RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow() error: %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner called %d times, want 1", runner.calls)
	}
}

func TestRunNowPropagatesCycleError(t *testing.T) {
	cycleErr := errors.New("smtp down")
	runner := &countingRunner{err: cycleErr}
	driver, err := New(runner, zap.NewNop(), "11:00", "UTC")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := driver.RunNow(context.Background()); !errors.Is(err, cycleErr) {
		t.Errorf("RunNow() = %v, want %v", err, cycleErr)
	}
}

func TestStartAndStop(t *testing.T) {
	runner := &countingRunner{}
	driver, err := New(runner, zap.NewNop(), "11:00", "UTC")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := driver.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	driver.Stop()
}
