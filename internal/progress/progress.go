// Package progress draws the bracketed status meters the maintenance
// commands print while they work: a four-slot bar that fills in place
// and resolves to an ok marker.
package progress

import (
	"fmt"
	"io"
	"strings"
)

// Meter writes single-line progress updates. All methods are no-ops
// when the meter is disabled, so call sites never guard on verbosity
// themselves. Updates rewrite the line in place with a carriage
// return; the ok marker is exactly as wide as the bar, so the trailing
// message survives the overwrite.
type Meter struct {
	w       io.Writer
	enabled bool
}

// New returns a meter writing to w when enabled.
func New(w io.Writer, enabled bool) *Meter {
	return &Meter{w: w, enabled: enabled}
}

// Start opens an empty bar with a trailing message.
func (m *Meter) Start(msg string) {
	if !m.enabled {
		return
	}
	fmt.Fprintf(m.w, "[%s] %s", bar(0, 1), msg)
}

// Tick redraws the bar at i of n. The message printed by Start stays
// on screen.
func (m *Meter) Tick(i, n int) {
	if !m.enabled {
		return
	}
	fmt.Fprintf(m.w, "\r[%s]", bar(i, n))
}

// TickMsg redraws the bar at i of n with a replacement message.
func (m *Meter) TickMsg(i, n int, msg string) {
	if !m.enabled {
		return
	}
	fmt.Fprintf(m.w, "\r[%s] %s", bar(i, n), msg)
}

// Full draws a full bar, for phases with no countable steps.
func (m *Meter) Full() {
	if !m.enabled {
		return
	}
	fmt.Fprint(m.w, "\r[====]")
}

// Done resolves the current line to ok.
func (m *Meter) Done() {
	if !m.enabled {
		return
	}
	fmt.Fprint(m.w, "\r[ ok ]\n")
}

func bar(i, n int) string {
	p := 0
	if n > 0 {
		p = 5 * i / n
	}
	if p > 4 {
		p = 4
	}
	return strings.Repeat("=", p) + strings.Repeat(".", 4-p)
}

// Notef prints a one-line status note. Notes are part of command
// output flow rather than optional progress, so they are not gated
// behind a meter.
func Notef(w io.Writer, format string, a ...any) {
	fmt.Fprintf(w, "[ ** ] "+format+"\n", a...)
}
