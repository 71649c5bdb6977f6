package satellite

import "errors"

// ErrPanelsInactive is returned by CollectData when the solar panels are off.
var ErrPanelsInactive = errors.New("satellite: solar panels are inactive")
