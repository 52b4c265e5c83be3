// Package clip delivers rendered command output either to the system
// clipboard or to a writer.
package clip

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
)

// Copier sends text where the user asked it to go. The zero value is
// not usable; construct with New.
type Copier struct {
	w      io.Writer
	stdout bool
}

// New returns a Copier. With stdout set, Copy prints to w instead of
// touching the clipboard.
func New(w io.Writer, stdout bool) *Copier {
	return &Copier{w: w, stdout: stdout}
}

// Copy delivers text.
func (c *Copier) Copy(text string) error {
	if c.stdout {
		_, err := fmt.Fprintln(c.w, text)
		return err
	}
	return clipboard.WriteAll(text)
}

// Stdout reports whether output goes to the writer rather than the
// clipboard. Commands use it to skip interactive pauses that only
// make sense around clipboard handoffs.
func (c *Copier) Stdout() bool { return c.stdout }
