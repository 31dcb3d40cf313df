package metta

import (
	"fmt"
	"io"
)

// OutputSink receives output from println! and similar side-channel
// built-ins (spec.md §5: "No I/O in the evaluator hot path... dispatch
// to an injected sink so tests can capture output").
type OutputSink interface {
	Println(s string)
}

// WriterSink adapts an io.Writer (e.g. os.Stdout) to OutputSink.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Println(line string) {
	fmt.Fprintln(s.W, line)
}

// CaptureSink accumulates lines in memory, for tests that need to
// assert on println! output without touching stdio.
type CaptureSink struct {
	Lines []string
}

func (s *CaptureSink) Println(line string) {
	s.Lines = append(s.Lines, line)
}

// DiscardSink drops everything; used when a caller has no use for
// side-channel output.
type DiscardSink struct{}

func (DiscardSink) Println(string) {}

func init() {
	registerBuiltin("println!", printlnBuiltin)
}

func printlnBuiltin(args []Term, space *Space, ev *Evaluator) ([]Term, error) {
	if err := requireArity("println!", args, 1); err != nil {
		return nil, err
	}
	if ev.Sink != nil {
		ev.Sink.Println(args[0].String())
	}
	return []Term{Nil}, nil
}
