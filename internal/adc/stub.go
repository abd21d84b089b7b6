//go:build !linux

package adc

import "github.com/pkg/errors"

// IIOReader is not available on non-Linux platforms.
type IIOReader struct{}

// NewIIOReader returns an error on non-Linux platforms.
func NewIIOReader(path string) (*IIOReader, error) {
	return nil, errors.New("adc: not supported on this platform (requires Linux IIO)")
}

// Read is not implemented on non-Linux platforms.
func (r *IIOReader) Read() (int, error) {
	return 0, errors.New("adc: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *IIOReader) Close() error {
	return nil
}
