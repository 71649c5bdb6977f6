// Package store keeps transcripts of finished scenario runs on disk.
//
// Each run gets its own directory holding metadata.json and steps.csv.
// Transcripts are reports: nothing in satsim loads a satellite from them.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/satsim/internal/automation"
	"github.com/san-kum/satsim/internal/satellite"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
)

// ErrInvalidRunID is returned for IDs that would resolve outside the store.
var ErrInvalidRunID = errors.New("store: invalid run id")

var stepsHeader = []string{"index", "input", "command", "orientation", "panels_active", "data_collected", "error"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// safeName turns a scenario name into a single path element. Scenario
// names come from user yaml and must not escape the data directory.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, ". ")
	if name == "" {
		return "run"
	}
	return name
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Description string             `json:"description,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Steps       int                `json:"steps"`
	Errors      int                `json:"errors"`
	Final       satellite.Snapshot `json:"final"`
}

func (s *Store) Save(scenario *automation.Scenario, steps []automation.Step) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", safeName(scenario.Name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario.Name,
		Description: scenario.Description,
		Timestamp:   now,
		Steps:       len(steps),
		Final:       satellite.New().Snapshot(),
	}
	for _, st := range steps {
		if st.Error != "" {
			meta.Errors++
		}
	}
	if len(steps) > 0 {
		meta.Final = steps[len(steps)-1].Snapshot
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSteps(filepath.Join(runDir, stepsFile), steps); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSteps(path string, steps []automation.Step) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(stepsHeader); err != nil {
		return err
	}
	for _, st := range steps {
		row := []string{
			strconv.Itoa(st.Index),
			st.Input,
			st.Command,
			st.Snapshot.Orientation,
			strconv.FormatBool(st.Snapshot.PanelsActive),
			strconv.Itoa(st.Snapshot.DataCollected),
			st.Error,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSteps reads the step transcript of a run. Output lines are not
// stored, so the returned steps carry no Lines.
func (s *Store) LoadSteps(runID string) ([]automation.Step, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, stepsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(stepsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", stepsFile, err)
	}
	if len(records) < 2 {
		return []automation.Step{}, nil
	}

	steps := make([]automation.Step, 0, len(records)-1)
	for i, rec := range records[1:] {
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: index: %w", i+1, err)
		}
		panels, err := strconv.ParseBool(rec[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: panels_active: %w", i+1, err)
		}
		data, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: data_collected: %w", i+1, err)
		}
		steps = append(steps, automation.Step{
			Index:   idx,
			Input:   rec[1],
			Command: rec[2],
			Error:   rec[6],
			Snapshot: satellite.Snapshot{
				Orientation:   rec[3],
				PanelsActive:  panels,
				DataCollected: data,
			},
		})
	}
	return steps, nil
}
