// Package ziputil reads single-payload zip archives, the shape the
// extended card database download arrives in.
package ziputil

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
)

// zipMagic is the local-file-header signature every zip archive opens
// with.
var zipMagic = []byte("PK\x03\x04")

// IsArchive reports whether b looks like a zip archive.
func IsArchive(b []byte) bool {
	return bytes.HasPrefix(b, zipMagic)
}

// JSONMember extracts the first .json member of the archive.
func JSONMember(b []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errors.New("archive contains no json member")
}
