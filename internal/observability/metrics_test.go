package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/satsim/internal/command"
	"github.com/san-kum/satsim/internal/logging"
	"github.com/san-kum/satsim/internal/satellite"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{satellite.ErrPanelsInactive, OutcomePanelsInactive},
		{command.ErrInvalidCommand, OutcomeInvalid},
		{errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCollectorTracksInterpreter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCommandCollector(reg)
	if err != nil {
		t.Fatalf("NewCommandCollector: %v", err)
	}

	in := command.New(satellite.New(), nil, command.WithRecorder(collector))
	for _, line := range []string{"collect", "activate", "collect", "collect", "fly", "deactivate"} {
		in.Execute(line)
	}

	if got := testutil.ToFloat64(collector.Commands.WithLabelValues("collect", OutcomeOK)); got != 2 {
		t.Errorf("collect ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Commands.WithLabelValues("collect", OutcomePanelsInactive)); got != 1 {
		t.Errorf("collect panels_inactive = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Commands.WithLabelValues("invalid", OutcomeInvalid)); got != 1 {
		t.Errorf("invalid = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.DataCollected); got != 20 {
		t.Errorf("data collected = %v, want 20", got)
	}
	if got := testutil.ToFloat64(collector.PanelsActive); got != 0 {
		t.Errorf("panels active = %v, want 0", got)
	}
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCommandCollector(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewCommandCollector(reg); err == nil {
		t.Error("expected error registering twice on one registry")
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCommandCollector(reg)
	if err != nil {
		t.Fatalf("NewCommandCollector: %v", err)
	}
	collector.ObserveCommand(command.Activate, nil, satellite.Snapshot{PanelsActive: true})

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `satsim_commands_total{command="activate",outcome="ok"} 1`) {
		t.Errorf("missing command counter in:\n%s", body)
	}
	if !strings.Contains(body, "satsim_panels_active 1") {
		t.Errorf("missing panels gauge in:\n%s", body)
	}
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCommandCollector(reg)
	if err != nil {
		t.Fatalf("NewCommandCollector: %v", err)
	}

	srv, err := Serve("127.0.0.1:0", collector.Handler(), logging.Discard())
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "satsim_data_collected") {
		t.Errorf("unexpected body:\n%s", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
