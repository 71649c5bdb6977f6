// Package observability exposes satsim command metrics to Prometheus.
package observability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/satsim/internal/command"
	"github.com/san-kum/satsim/internal/satellite"
)

const (
	OutcomeOK             = "ok"
	OutcomePanelsInactive = "panels_inactive"
	OutcomeInvalid        = "invalid"
	OutcomeError          = "error"
)

// CommandCollector bundles the satsim metrics. It satisfies
// command.Recorder so the interpreter can drive it directly.
type CommandCollector struct {
	gatherer prometheus.Gatherer

	Commands      *prometheus.CounterVec
	DataCollected prometheus.Gauge
	PanelsActive  prometheus.Gauge
}

// NewCommandCollector registers the metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCommandCollector(reg prometheus.Registerer) (*CommandCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "satsim_commands_total",
		Help: "Total number of interpreted command lines, labeled by command and outcome.",
	}, []string{"command", "outcome"})
	if err := reg.Register(commands); err != nil {
		return nil, fmt.Errorf("register satsim_commands_total: %w", err)
	}

	data := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_data_collected",
		Help: "Data collected by the satellite so far.",
	})
	if err := reg.Register(data); err != nil {
		return nil, fmt.Errorf("register satsim_data_collected: %w", err)
	}

	panels := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "satsim_panels_active",
		Help: "1 while the solar panels are active, 0 otherwise.",
	})
	if err := reg.Register(panels); err != nil {
		return nil, fmt.Errorf("register satsim_panels_active: %w", err)
	}

	return &CommandCollector{
		gatherer:      gatherer,
		Commands:      commands,
		DataCollected: data,
		PanelsActive:  panels,
	}, nil
}

func (c *CommandCollector) ObserveCommand(kind command.Kind, err error, snap satellite.Snapshot) {
	if c == nil {
		return
	}
	c.Commands.WithLabelValues(kind.String(), Outcome(err)).Inc()
	c.DataCollected.Set(float64(snap.DataCollected))
	if snap.PanelsActive {
		c.PanelsActive.Set(1)
	} else {
		c.PanelsActive.Set(0)
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *CommandCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Outcome maps an interpreter error onto the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, satellite.ErrPanelsInactive):
		return OutcomePanelsInactive
	case errors.Is(err, command.ErrInvalidCommand):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
