package util

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/theckman/yacspin"
)

const spinnerFrequency = 100 * time.Millisecond

// StatusSpinner keeps the latest status of a job on one animated line when writing to a
// terminal. Elsewhere every status is printed on its own line.
type StatusSpinner struct {
	w    io.Writer
	spin *yacspin.Spinner
}

func NewStatusSpinner(w io.Writer) (*StatusSpinner, error) {
	s := &StatusSpinner{w: w}
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return s, nil
	}

	spin, err := yacspin.New(yacspin.Config{
		Frequency:         spinnerFrequency,
		Writer:            w,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " ",
		StopCharacter:     "✓",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "✗",
		StopFailColors:    []string{"fgRed"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}
	if err := spin.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}
	s.spin = spin
	return s, nil
}

func (s *StatusSpinner) Update(msg string) {
	if s.spin == nil {
		_, _ = fmt.Fprintln(s.w, msg)
		return
	}
	s.spin.Message(msg)
}

// Done prints the final status. The spinner cannot be used afterwards.
func (s *StatusSpinner) Done(msg string, success bool) {
	if s.spin == nil {
		_, _ = fmt.Fprintln(s.w, msg)
		return
	}
	if success {
		s.spin.StopMessage(msg)
		_ = s.spin.Stop()
		return
	}
	s.spin.StopFailMessage(msg)
	_ = s.spin.StopFail()
}

// Abort stops the animation, keeping the last status on screen.
func (s *StatusSpinner) Abort() {
	if s.spin != nil && s.spin.Status() == yacspin.SpinnerRunning {
		_ = s.spin.Stop()
	}
}
