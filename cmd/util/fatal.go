package util

import (
	"errors"
	"math"
	"os"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gridlab/gridclient/cmd/util/output"
	"github.com/gridlab/gridclient/pkg/griderrors"
)

const (
	errorPrefix = "Error: "
	hintPrefix  = "Hint: "
)

var Fatal = fatalError

func fatalError(cmd *cobra.Command, err error, code int) {
	PrintErr(cmd, err)
	os.Exit(code)
}

// PrintErr prints err in red, then its hint if it has one. Both are wrapped to the size of the
// terminal and indented under their prefix.
func PrintErr(cmd *cobra.Command, err error) {
	width := terminalWidth()
	if msg := strings.TrimSuffix(err.Error(), "\n"); msg != "" {
		printWrapped(cmd, output.RedStr(errorPrefix), errorPrefix, msg, width, output.RedStr)
	}
	var gridErr *griderrors.Error
	if errors.As(err, &gridErr) && gridErr.Hint() != "" {
		printWrapped(cmd, output.BoldStr(hintPrefix), hintPrefix, gridErr.Hint(), width, nil)
	}
}

func printWrapped(cmd *cobra.Command, prefix, plainPrefix, msg string, width uint, style func(string) string) {
	if width > uint(len(plainPrefix)) {
		msg = wordwrap.WrapString(msg, width-uint(len(plainPrefix)))
	}
	for i, line := range strings.Split(msg, "\n") {
		if i == 0 {
			cmd.PrintErr(prefix)
		} else {
			cmd.PrintErr(strings.Repeat(" ", len(plainPrefix)))
		}
		if style != nil {
			line = style(line)
		}
		cmd.PrintErrln(line)
	}
}

func terminalWidth() uint {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		log.Debug().Err(err).Msg("Failed to get terminal size")
		return math.MaxInt32
	}
	return uint(width)
}
