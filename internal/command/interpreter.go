package command

import (
	"errors"
	"log/slog"

	"github.com/san-kum/satsim/internal/satellite"
)

// Recorder observes every executed command. The observability package
// provides a Prometheus-backed implementation.
type Recorder interface {
	ObserveCommand(kind Kind, err error, snap satellite.Snapshot)
}

// Result describes one executed line. Err is informational: the failure has
// already been rendered into Lines and emitted.
type Result struct {
	Command Command
	Lines   []string
	Err     error
}

type Interpreter struct {
	sat      *satellite.Satellite
	out      Emitter
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Interpreter)

func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.logger = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(in *Interpreter) { in.recorder = r }
}

// New returns an interpreter that owns sat. A nil emitter discards output.
func New(sat *satellite.Satellite, out Emitter, opts ...Option) *Interpreter {
	if out == nil {
		out = discard{}
	}
	in := &Interpreter{
		sat:    sat,
		out:    out,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interpreter) Snapshot() satellite.Snapshot {
	return in.sat.Snapshot()
}

// Execute parses line, applies it and emits the resulting messages. It
// never fails: unknown keywords and refused collections become messages.
func (in *Interpreter) Execute(line string) Result {
	cmd := Parse(line)
	res := Result{Command: cmd}

	switch cmd.Kind {
	case Rotate:
		in.sat.Rotate(cmd.Arg)
		res.Lines = []string{"Satellite rotated to " + cmd.Arg + " direction."}
	case Activate:
		in.sat.ActivatePanels()
		res.Lines = []string{"Solar panels activated."}
	case Deactivate:
		in.sat.DeactivatePanels()
		res.Lines = []string{"Solar panels deactivated."}
	case Collect:
		if err := in.sat.CollectData(); err != nil {
			res.Err = err
			res.Lines = []string{describe(err)}
		} else {
			res.Lines = []string{"Data collected."}
		}
	case Status:
		res.Lines = in.sat.Snapshot().Lines()
	default:
		res.Err = ErrInvalidCommand
		res.Lines = []string{invalidCommandMessage}
	}

	for _, msg := range res.Lines {
		in.out.Emit(msg)
	}

	snap := in.sat.Snapshot()
	if res.Err != nil {
		in.logger.Info("command refused",
			"command", cmd.Kind.String(),
			"keyword", cmd.Keyword,
			"error", res.Err,
		)
	} else {
		in.logger.Debug("command executed",
			"command", cmd.Kind.String(),
			"orientation", snap.Orientation,
			"panels_active", snap.PanelsActive,
			"data_collected", snap.DataCollected,
		)
	}
	if in.recorder != nil {
		in.recorder.ObserveCommand(cmd.Kind, res.Err, snap)
	}

	return res
}

func describe(err error) string {
	switch {
	case errors.Is(err, satellite.ErrPanelsInactive):
		return panelsInactiveMessage
	case errors.Is(err, ErrInvalidCommand):
		return invalidCommandMessage
	default:
		return err.Error()
	}
}
