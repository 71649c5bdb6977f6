package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/satsim/internal/command"
	"github.com/san-kum/satsim/internal/config"
	"github.com/san-kum/satsim/internal/satellite"
)

// Scenario is a scripted command session.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Commands    []string `yaml:"commands"`
}

// Step records one executed scenario line.
type Step struct {
	Index    int                `json:"index"`
	Input    string             `json:"input"`
	Command  string             `json:"command"`
	Lines    []string           `json:"lines"`
	Error    string             `json:"error,omitempty"`
	Snapshot satellite.Snapshot `json:"snapshot"`
}

// LoadScenario loads a scenario from a YAML file. A missing name defaults
// to the file name without its extension.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if scenario.Name == "" {
		base := filepath.Base(path)
		scenario.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if len(scenario.Commands) == 0 {
		return nil, fmt.Errorf("scenario %s has no commands", scenario.Name)
	}

	return &scenario, nil
}

func FromPreset(name string, p config.Preset) *Scenario {
	return &Scenario{
		Name:        name,
		Description: p.Description,
		Commands:    append([]string(nil), p.Commands...),
	}
}

// Run feeds the scenario's commands to in, stopping early at an exit line.
// Refused commands are recorded in their step, not returned as errors.
func Run(ctx context.Context, scenario *Scenario, in *command.Interpreter) ([]Step, error) {
	steps := make([]Step, 0, len(scenario.Commands))

	for i, line := range scenario.Commands {
		select {
		case <-ctx.Done():
			return steps, ctx.Err()
		default:
		}

		if strings.TrimSpace(line) == command.ExitKeyword {
			break
		}

		res := in.Execute(line)
		step := Step{
			Index:    i + 1,
			Input:    line,
			Command:  res.Command.Kind.String(),
			Lines:    res.Lines,
			Snapshot: in.Snapshot(),
		}
		if res.Err != nil {
			step.Error = res.Err.Error()
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// DataSeries returns data collected after each step, starting from zero.
func DataSeries(steps []Step) []float64 {
	series := make([]float64, 0, len(steps)+1)
	series = append(series, 0)
	for _, s := range steps {
		series = append(series, float64(s.Snapshot.DataCollected))
	}
	return series
}
