package filesystem

import (
	"io"
	"os"
)

// GacheFs exposes the package backend through the narrow surface gache
// expects of its stores, so cached state lands on the same filesystem as
// everything else.
type GacheFs struct{}

func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
