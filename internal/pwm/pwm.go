// Package pwm drives the two dimmable lamp outputs with hardware
// abstraction. The real implementation bit-bangs PWM on Linux GPIO
// character device lines; the fake records writes for tests.
package pwm

import "github.com/mwoudenberg/aqualed/internal/logic"

// Output applies resolved intensities to the lamp hardware.
type Output interface {
	// Set applies channel intensities in percent. Values above 100 are
	// clamped here: the hardware boundary is the last line of defense
	// against out-of-range override levels, which upstream layers pass
	// through unvalidated.
	Set(a, b uint8) error

	// Close turns both lamps off and releases GPIO resources.
	Close() error
}

// Pin definitions (BCM numbering), matching the device wiring.
const (
	DefaultPinA = 14 // lamp A
	DefaultPinB = 12 // lamp B
)

// Clamp limits an intensity to the drivable range.
func Clamp(v uint8) uint8 {
	if v > logic.MaxLevel {
		return logic.MaxLevel
	}
	return v
}
