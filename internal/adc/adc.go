// Package adc provides raw analog reads of the light sensor with hardware
// abstraction. The real implementation reads the kernel IIO sysfs ABI.
// The fake implementation allows testing without hardware.
package adc

// DefaultDevicePath is the raw-voltage attribute of the first IIO ADC
// channel, where an MCP3008-style converter shows up on a Pi.
const DefaultDevicePath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"

// Reader reads one raw sample of the LDR channel.
type Reader interface {
	// Read returns the current raw reading (0..1023 for a 10-bit ADC).
	Read() (int, error)

	// Close releases any underlying resources.
	Close() error
}
