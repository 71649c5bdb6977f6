package command

import "errors"

// ErrInvalidCommand is reported for any keyword outside the dispatch table.
var ErrInvalidCommand = errors.New("command: invalid command")

const (
	invalidCommandMessage = "Invalid command!"
	panelsInactiveMessage = "Solar panels are inactive. Cannot collect data."
)
