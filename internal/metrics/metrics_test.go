package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestManager_Records(t *testing.T) {
	m := NewManager()

	m.RecordFrame(10 * time.Millisecond)
	m.RecordFrame(20 * time.Millisecond)
	m.RecordCaptureFailure()
	m.RecordDetectError()
	m.RecordHand()
	m.RecordGesture("Rock")
	m.RecordGesture("None")
	m.RecordRound("player")
	m.RecordRound("player")

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"frames", m.framesProcessed, 2},
		{"capture failures", m.captureFailures, 1},
		{"detect errors", m.detectErrors, 1},
		{"hands", m.handsDetected, 1},
		{"rock gestures", m.gestures.WithLabelValues("Rock"), 1},
		{"unrecognized gestures", m.gestures.WithLabelValues("None"), 1},
		{"player wins", m.rounds.WithLabelValues("player"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager

	// None of these should panic.
	m.RecordFrame(time.Millisecond)
	m.RecordCaptureFailure()
	m.RecordDetectError()
	m.RecordHand()
	m.RecordGesture("Rock")
	m.RecordRound("tie")
}

func TestManager_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("test"),
		WithSubsystem("game"),
		WithHistogramBuckets([]float64{0.1, 1}),
		WithRegistry(reg),
	)

	if m.Registry() != reg {
		t.Fatal("expected supplied registry to be used")
	}

	m.RecordRound("tie")

	if n, err := testutil.GatherAndCount(reg, "test_game_rounds_total"); err != nil || n != 1 {
		t.Errorf("GatherAndCount() = %d, %v; want 1 series", n, err)
	}
}

func TestManager_Handler(t *testing.T) {
	m := NewManager()
	m.RecordRound("computer")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `handgame_loop_rounds_total{outcome="computer"} 1`) {
		t.Errorf("exposition missing rounds counter:\n%s", rec.Body.String())
	}
}
