package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/satsim/internal/command"
	"github.com/san-kum/satsim/internal/config"
	"github.com/san-kum/satsim/internal/satellite"
)

func writeScenario(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, "sweep.yaml", `
description: one pass
commands:
  - activate
  - collect
  - rotate East
`)

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "sweep" {
		t.Errorf("expected name from file, got %q", sc.Name)
	}
	if len(sc.Commands) != 3 || sc.Commands[2] != "rotate East" {
		t.Errorf("unexpected commands %v", sc.Commands)
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadScenario(writeScenario(t, "empty.yaml", "name: empty\n")); err == nil {
		t.Error("expected error for scenario without commands")
	}
	if _, err := LoadScenario(writeScenario(t, "bad.yaml", "commands: {\n")); err == nil {
		t.Error("expected error for bad yaml")
	}
}

func TestRun_Demo(t *testing.T) {
	p, _ := config.GetPreset("demo")
	sc := FromPreset("demo", p)
	in := command.New(satellite.New(), nil)

	steps, err := Run(context.Background(), sc, in)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(steps))
	}

	if steps[1].Command != "collect" || steps[1].Error == "" {
		t.Errorf("step 2 should be a refused collect: %+v", steps[1])
	}
	if steps[1].Lines[0] != "Solar panels are inactive. Cannot collect data." {
		t.Errorf("unexpected step 2 output %q", steps[1].Lines)
	}
	last := steps[5].Snapshot
	if last != (satellite.Snapshot{Orientation: "East", PanelsActive: true, DataCollected: 10}) {
		t.Errorf("unexpected final snapshot %+v", last)
	}
}

func TestRun_StopsAtExit(t *testing.T) {
	sc := &Scenario{Name: "short", Commands: []string{"activate", "exit", "collect"}}
	steps, err := Run(context.Background(), sc, command.New(satellite.New(), nil))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(steps) != 1 {
		t.Errorf("expected 1 step before exit, got %d", len(steps))
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := &Scenario{Name: "c", Commands: []string{"activate"}}
	steps, err := Run(ctx, sc, command.New(satellite.New(), nil))
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("expected no steps, got %d", len(steps))
	}
}

func TestDataSeries(t *testing.T) {
	p, _ := config.GetPreset("survey")
	steps, err := Run(context.Background(), FromPreset("survey", p), command.New(satellite.New(), nil))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	series := DataSeries(steps)
	if len(series) != len(steps)+1 || series[0] != 0 {
		t.Fatalf("unexpected series %v", series)
	}
	for i := 1; i < len(series); i++ {
		if series[i] < series[i-1] {
			t.Errorf("data decreased at step %d: %v", i, series)
		}
	}
	if series[len(series)-1] != 40 {
		t.Errorf("expected 40 after survey, got %v", series[len(series)-1])
	}
}
