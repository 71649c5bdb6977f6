// Package console runs the line-oriented read loop around an interpreter.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/san-kum/satsim/internal/command"
)

type MenuMode string

const (
	MenuAuto   MenuMode = "auto"
	MenuAlways MenuMode = "always"
	MenuNever  MenuMode = "never"
)

// ParseMenuMode accepts auto, always or never in any case.
func ParseMenuMode(s string) (MenuMode, error) {
	switch m := MenuMode(strings.ToLower(s)); m {
	case MenuAuto, MenuAlways, MenuNever:
		return m, nil
	case "":
		return MenuAuto, nil
	default:
		return "", fmt.Errorf("unknown menu mode %q", s)
	}
}

// Session reads one command per line from In until an exit line or end of
// input. Prompts and interpreter output both go to Out.
type Session struct {
	In          io.Reader
	Out         io.Writer
	Interp      *command.Interpreter
	Menu        MenuMode
	ShowInitial bool
	Logger      *slog.Logger
}

func (s *Session) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	showMenu := s.showMenu()

	if s.ShowInitial {
		fmt.Fprintln(s.Out, "Initial State:")
		for _, line := range s.Interp.Snapshot().Lines() {
			fmt.Fprintln(s.Out, line)
		}
	}

	r := bufio.NewReader(s.In)
	lines := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Info("session canceled", "lines", lines)
			return err
		}
		if showMenu {
			fmt.Fprintln(s.Out, command.Menu())
		}

		// Lines have no length limit; a final line without a newline
		// still counts.
		raw, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		if raw == "" && err != nil {
			break
		}

		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if line == command.ExitKeyword {
			logger.Debug("exit requested", "lines", lines)
			return nil
		}
		lines++
		s.Interp.Execute(line)

		if err != nil {
			break
		}
	}

	logger.Debug("end of input", "lines", lines)
	return nil
}

func (s *Session) showMenu() bool {
	switch s.Menu {
	case MenuAlways:
		return true
	case MenuNever:
		return false
	default:
		return isTerminal(s.In)
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
