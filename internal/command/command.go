// Package command parses operator input lines and applies them to a satellite.
package command

import "strings"

type Kind int

const (
	Invalid Kind = iota
	Rotate
	Activate
	Deactivate
	Collect
	Status
)

// ExitKeyword ends a session. It is handled by the read loop, never by the
// interpreter.
const ExitKeyword = "exit"

var keywords = map[string]Kind{
	"rotate":     Rotate,
	"activate":   Activate,
	"deactivate": Deactivate,
	"collect":    Collect,
	"status":     Status,
}

func (k Kind) String() string {
	switch k {
	case Rotate:
		return "rotate"
	case Activate:
		return "activate"
	case Deactivate:
		return "deactivate"
	case Collect:
		return "collect"
	case Status:
		return "status"
	default:
		return "invalid"
	}
}

// Command is one parsed input line.
type Command struct {
	Kind Kind
	// Keyword is the first token as typed, kept for invalid commands.
	Keyword string
	// Arg is only set for Rotate.
	Arg string
}

// Parse splits line on whitespace. Keywords match exactly and are
// case-sensitive. rotate takes the second token as its direction, or ""
// when there is none; any further tokens are ignored.
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Kind: Invalid}
	}

	cmd := Command{Kind: keywords[fields[0]], Keyword: fields[0]}
	if cmd.Kind == Rotate && len(fields) > 1 {
		cmd.Arg = fields[1]
	}
	return cmd
}

// Menu is the prompt shown before each line in interactive sessions.
func Menu() string {
	return "\nEnter command:\n1. rotate\n2. activate\n3. deactivate\n4. collect\n5. status\n6. exit"
}
