package report

import (
	"io"
	"os"
)

// createFile opens a report file for writing. Tests replace it.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeFile runs fn against a fresh file at path. A failed Close is
// reported like any other write error.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(f)
}
