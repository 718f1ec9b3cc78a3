// log.go
package shi

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// logger writes runtime diagnostics to stderr, colorized when stderr is a
// terminal. GC statistics use the debug level and only appear when
// SHI_DEBUG_GC is set.
type logger struct {
	debug bool
	dim   *color.Color
	red   *color.Color
}

func newLogger(debug bool) *logger {
	l := &logger{
		debug: debug,
		dim:   color.New(color.FgHiBlack),
		red:   color.New(color.FgRed),
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		l.dim.DisableColor()
		l.red.DisableColor()
	}
	return l
}

func (l *logger) debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	fmt.Fprintln(os.Stderr, l.dim.Sprintf(format, args...))
}

func (l *logger) errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, l.red.Sprintf(format, args...))
}
