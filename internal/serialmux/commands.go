package serialmux

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCommandNotAllowed is returned for hub commands outside the allow list.
var ErrCommandNotAllowed = errors.New("command not allowed")

// Allow list of hub command verbs. Arguments follow the verb separated by
// spaces.
var allowedCommands = map[string]string{
	"CLOCK":  "Set hub clock in unix milliseconds",
	"FORMAT": "Output format: JSON or CSV",
	"RANGE":  "Sensor range: ACC 2G|4G|8G|16G, GYRO 250DPS..2000DPS",
	"RATE":   "Sample rate in Hz",
	"STREAM": "Start or stop streaming: ON|OFF",
	"STATUS": "Emit one status line",
	"SCAN":   "Rescan the sensor bus and report addresses",
	"RESET":  "Reboot the hub",
}

// ValidateCommand checks a command line against the allow list.
func ValidateCommand(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty command", ErrCommandNotAllowed)
	}
	if _, ok := allowedCommands[strings.ToUpper(fields[0])]; !ok {
		return fmt.Errorf("%w: %q", ErrCommandNotAllowed, fields[0])
	}
	return nil
}
