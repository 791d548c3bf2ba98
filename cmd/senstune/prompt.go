package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/okian/senstune/internal/replay"
)

// promptResolver asks the user for a sensitivity per replay, retrying
// until the input parses. Empty input skips the replay. Validation is
// the pure replay.ParseSensitivity; only the loop and I/O live here.
type promptResolver struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptResolver(in io.Reader, out io.Writer) *promptResolver {
	return &promptResolver{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Resolve implements app.SensitivityResolver.
func (p *promptResolver) Resolve(ctx context.Context, replayName string) (float64, bool) {
	for {
		if ctx.Err() != nil {
			return 0, false
		}
		fmt.Fprintf(p.out, "Enter in-game sensitivity for %q (empty to skip): ", replayName)
		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, false
		}

		sens, perr := replay.ParseSensitivity(line)
		switch {
		case perr == nil:
			return sens, true
		case errors.Is(perr, replay.ErrNoSensitivity):
			return 0, false
		default:
			fmt.Fprintln(p.out, "Invalid sensitivity. Please enter a number (e.g. 0.8, 1.0).")
		}
	}
}
