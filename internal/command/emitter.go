package command

import (
	"fmt"
	"io"
)

// Emitter receives interpreter output, one message per call.
type Emitter interface {
	Emit(message string)
}

// EmitterFunc adapts a plain function to Emitter, for callers that collect
// messages in memory instead of writing them.
type EmitterFunc func(message string)

func (f EmitterFunc) Emit(message string) { f(message) }

// WriterEmitter writes each message on its own line. Write errors are
// dropped; a console that cannot be written to has nobody to tell.
type WriterEmitter struct {
	W io.Writer
}

func (e WriterEmitter) Emit(message string) {
	fmt.Fprintln(e.W, message)
}

type discard struct{}

func (discard) Emit(string) {}
