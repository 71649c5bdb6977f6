package store

import (
	"encoding/json"
	"io"

	"github.com/san-kum/satsim/internal/automation"
)

type ExportData struct {
	Run   RunMetadata       `json:"run"`
	Steps []automation.Step `json:"steps"`
}

// ExportJSON writes a run's metadata and transcript as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	steps, err := s.LoadSteps(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Steps: steps})
}
