package serialmux

import (
	"fmt"

	"go.bug.st/serial"
)

// NewRealSerialMux opens the sensor hub's serial device at path and returns a
// SerialMux reading its line stream. Call Initialize before Monitor to put
// the hub into JSON streaming mode.
func NewRealSerialMux(path string, opts PortOptions) (*SerialMux[serial.Port], error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, fmt.Errorf("invalid options for %s: %w", path, err)
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open sensor hub at %s: %w", path, err)
	}
	return NewSerialMux(port), nil
}
