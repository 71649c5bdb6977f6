package satellite

import "strconv"

const (
	DefaultOrientation = "North"

	// DataStep is the amount added by one successful collection.
	DataStep = 10
)

type Satellite struct {
	orientation   string
	panelsActive  bool
	dataCollected int
}

func New() *Satellite {
	return &Satellite{orientation: DefaultOrientation}
}

// Rotate overwrites the orientation. Any string is accepted, including "".
func (s *Satellite) Rotate(direction string) {
	s.orientation = direction
}

func (s *Satellite) ActivatePanels()   { s.panelsActive = true }
func (s *Satellite) DeactivatePanels() { s.panelsActive = false }

// CollectData adds DataStep to the collected data. With the panels off it
// returns ErrPanelsInactive and leaves the satellite untouched.
func (s *Satellite) CollectData() error {
	if !s.panelsActive {
		return ErrPanelsInactive
	}
	s.dataCollected += DataStep
	return nil
}

func (s *Satellite) Snapshot() Snapshot {
	return Snapshot{
		Orientation:   s.orientation,
		PanelsActive:  s.panelsActive,
		DataCollected: s.dataCollected,
	}
}

// Snapshot is a read-only copy of the satellite state.
type Snapshot struct {
	Orientation   string `json:"orientation"`
	PanelsActive  bool   `json:"panels_active"`
	DataCollected int    `json:"data_collected"`
}

func (s Snapshot) PanelStatus() string {
	if s.PanelsActive {
		return "Active"
	}
	return "Inactive"
}

// Lines renders the status block, one field per line.
func (s Snapshot) Lines() []string {
	return []string{
		"Orientation: " + s.Orientation,
		"Solar Panels: " + s.PanelStatus(),
		"Data Collected: " + strconv.Itoa(s.DataCollected),
	}
}
