// Package diffutil renders classic unified diffs (---/+++ headers, @@
// hunks). Tests use it to show how a rendered report differs from its
// golden text.
package diffutil

import (
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"
)

// Unified produces a unified patch for want vs got. An empty string
// means the inputs match.
func Unified(wantName, gotName, want, got string) string {
	if want == got {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(want),
		B:        splitLinesKeepNL(got),
		FromFile: wantName,
		ToFile:   gotName,
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "diff unavailable: " + err.Error()
	}
	return s
}

// splitLinesKeepNL keeps the newline on each element, which difflib
// needs to produce accurate hunks. A final chunk without a newline is
// fine for unified output.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
