//go:build linux

package adc

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IIOReader reads raw samples from a Linux IIO ADC channel attribute.
// Each Read opens and reads the sysfs file, which is how the kernel expects
// one-shot IIO reads to be done.
type IIOReader struct {
	path string
}

// NewIIOReader creates a reader for the given sysfs attribute path and
// verifies the channel is readable.
func NewIIOReader(path string) (*IIOReader, error) {
	r := &IIOReader{path: path}
	if _, err := r.Read(); err != nil {
		return nil, errors.Wrapf(err, "probe adc channel %s", path)
	}
	return r, nil
}

// Read returns the current raw reading.
func (r *IIOReader) Read() (int, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return 0, errors.Wrap(err, "read adc channel")
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrapf(err, "parse adc value %q", strings.TrimSpace(string(data)))
	}
	return v, nil
}

// Close is a no-op; sysfs attributes hold no persistent handle.
func (r *IIOReader) Close() error {
	return nil
}
