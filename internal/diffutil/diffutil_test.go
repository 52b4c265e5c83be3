package diffutil

import (
	"strings"
	"testing"
)

func TestUnifiedEqualInputs(t *testing.T) {
	if got := Unified("a", "b", "same\n", "same\n"); got != "" {
		t.Fatalf("expected empty diff, got %q", got)
	}
}

func TestUnifiedShowsChange(t *testing.T) {
	got := Unified("want", "got", "one\ntwo\nthree\n", "one\n2\nthree\n")
	for _, part := range []string{"--- want", "+++ got", "-two", "+2"} {
		if !strings.Contains(got, part) {
			t.Fatalf("diff missing %q:\n%s", part, got)
		}
	}
}

func TestUnifiedNoTrailingNewline(t *testing.T) {
	got := Unified("want", "got", "line", "other")
	if !strings.Contains(got, "-line") || !strings.Contains(got, "+other") {
		t.Fatalf("unexpected diff:\n%s", got)
	}
}
