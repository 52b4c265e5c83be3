package textutil

import (
	"bytes"
	"strings"
)

// NormalizeUTF8LF converts CRLF/CR to LF and ensures the output is valid
// UTF-8 by replacing invalid byte sequences with the Unicode replacement
// character. Blobs read from git history occasionally carry Windows line
// endings or stray Latin-1 bytes; the line-oriented scanners assume neither.
func NormalizeUTF8LF(b []byte) []byte {
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	b = bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
	return bytes.ToValidUTF8(b, []byte("�"))
}

// Lines normalizes b and splits it into lines without trailing newlines.
func Lines(b []byte) []string {
	return strings.Split(string(NormalizeUTF8LF(b)), "\n")
}

// Stem returns the file name with its final extension removed, so
// "AjaniGoldmane.java" becomes "AjaniGoldmane". Names without an
// extension are returned unchanged.
func Stem(name string) string {
	ext := ""
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		ext = name[i:]
	}
	return strings.TrimSuffix(name, ext)
}
