// Package filesystem abstracts the handful of disk lookups input discovery
// performs, so resolution logic can be exercised against a fake in tests.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

type Filesystem interface {
	Stat(name string) (fs.FileInfo, error)
	Glob(pattern string) ([]string, error)
	Getwd() (string, error)
	Abs(path string) (string, error)
}

// DefaultFS is the real, underlying filesystem of the host operating system.
type DefaultFS struct{}

func (DefaultFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Glob expands a doublestar pattern against the working directory.
func (DefaultFS) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

func (DefaultFS) Getwd() (string, error) {
	return os.Getwd()
}

func (DefaultFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
