// Package filesystem routes every disk access through a swappable afero
// backend, so tests can point the whole application at an in-memory tree.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the backend in use.
func API() afero.Afero {
	return backend
}

// SetOsFs points the backend at the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs swaps the backend for a fresh in-memory tree.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
