package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := runRoot(root)
	return out.String(), err
}

func TestREPL_Default(t *testing.T) {
	out, err := execute(t, "status\ncollect\nactivate\ncollect\nrotate East\nstatus\nexit\nstatus\n")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	want := strings.Join([]string{
		"Initial State:",
		"Orientation: North",
		"Solar Panels: Inactive",
		"Data Collected: 0",
		"Orientation: North",
		"Solar Panels: Inactive",
		"Data Collected: 0",
		"Solar panels are inactive. Cannot collect data.",
		"Solar panels activated.",
		"Data collected.",
		"Satellite rotated to East direction.",
		"Orientation: East",
		"Solar Panels: Active",
		"Data Collected: 10",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestREPL_Flags(t *testing.T) {
	out, err := execute(t, "activate\n", "repl", "--menu", "always", "--no-initial")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if strings.Contains(out, "Initial State:") {
		t.Error("initial state printed despite --no-initial")
	}
	if !strings.Contains(out, "Enter command:") {
		t.Error("menu missing with --menu always")
	}
	if !strings.Contains(out, "Solar panels activated.") {
		t.Error("command output missing")
	}
}

func TestREPL_BadMenu(t *testing.T) {
	if _, err := execute(t, "", "repl", "--menu", "sometimes"); err == nil {
		t.Error("expected error for invalid menu mode")
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "satsim.yaml")
	if err := os.WriteFile(path, []byte("console:\n  show_initial_state: false\n  menu: never\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "rotate Up\n", "--config", path)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if out != "Satellite rotated to Up direction.\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRunPresetSaveAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "", "run", "--preset", "demo", "--save", "--plot", "--data", dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"running scenario demo (6 commands)", "[6] status", "Data Collected: 10", "run id: demo_"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "", "list", "--data", dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "demo_") {
		t.Errorf("list missing run:\n%s", out)
	}
}

func TestRunScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.yaml")
	data := "name: pass\ncommands:\n  - activate\n  - collect\n  - collect\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "run", path)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Data Collected: 20") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunArgumentErrors(t *testing.T) {
	if _, err := execute(t, "", "run"); err == nil {
		t.Error("expected error without scenario")
	}
	if _, err := execute(t, "", "run", "--preset", "nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := execute(t, "", "run", "x.yaml", "--preset", "demo"); err == nil {
		t.Error("expected error for file and preset together")
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "", "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, name := range []string{"demo", "idle", "survey"} {
		if !strings.Contains(out, name) {
			t.Errorf("presets output missing %s:\n%s", name, out)
		}
	}
}

func TestPlotAndExportSavedRun(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "", "run", "--preset", "survey", "--save", "--data", dir)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	idx := strings.Index(out, "run id: ")
	if idx < 0 {
		t.Fatalf("no run id in output:\n%s", out)
	}
	runID := strings.TrimSpace(out[idx+len("run id: "):])

	svg := filepath.Join(dir, "survey.svg")
	out, err = execute(t, "", "plot", runID, "--data", dir, "--svg", svg)
	if err != nil {
		t.Fatalf("plot failed: %v", err)
	}
	if !strings.Contains(out, "scenario: survey") || !strings.Contains(out, "data collected per step") {
		t.Errorf("unexpected plot output:\n%s", out)
	}
	if _, err := os.Stat(svg); err != nil {
		t.Errorf("svg not written: %v", err)
	}

	out, err = execute(t, "", "export-json", runID, "--data", dir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, `"scenario": "survey"`) {
		t.Errorf("unexpected export:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "satsim.yaml")

	if _, err := execute(t, "", "config-init", path, "--log-level", "debug", "--data", "runs"); err != nil {
		t.Fatalf("config-init failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	for _, want := range []string{"data_dir: runs", "level: debug"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config missing %q:\n%s", want, data)
		}
	}
}

func TestLogFileClosedOnError(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "satsim.log")

	if _, err := execute(t, "", "run", "--log-file", logPath, "--log-level", "debug"); err == nil {
		t.Fatal("expected error without scenario")
	}
	if logCloser != nil {
		t.Error("log file left open after a failed command")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "config loaded") {
		t.Errorf("unexpected log contents:\n%s", data)
	}
}
