package parser

import (
	"fmt"
	"io"
	"os"
)

// spool copies r into a temp file for libraries that need random access.
// The caller must call cleanup.
func spool(r io.Reader, pattern string) (f *os.File, size int64, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("create temp file: %w", err)
	}
	cleanup = func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	size, err = io.Copy(tmp, r)
	if err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		cleanup()
		return nil, 0, nil, fmt.Errorf("seek temp file: %w", err)
	}
	return tmp, size, cleanup, nil
}
