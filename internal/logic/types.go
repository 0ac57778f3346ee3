// Package logic contains the pure intensity resolution engine for the two
// lamp channels. This package has NO external dependencies (no GPIO, HTTP,
// storage, or wall-clock reads). The hour is always passed in by the caller.
package logic

// Slots is the number of schedule slots: 24 hours x 2 channels.
const Slots = 48

// MaxLevel is the highest lamp intensity, in percent.
const MaxLevel = 100

// Channel identifies one of the two lamp outputs.
type Channel int

const (
	ChannelA Channel = 0
	ChannelB Channel = 1
)

// Table maps (hour, channel) to an intensity in [0,100].
// The flat layout is hour*2 + channel, channel A first.
type Table [Slots]uint8

// Slot returns the flat table index for an hour and channel.
func Slot(hour int, ch Channel) int {
	return hour*2 + int(ch)
}

// At returns the scheduled intensity for the given hour and channel.
// The hour is clamped into [0,23].
func (t Table) At(hour int, ch Channel) uint8 {
	return t[Slot(clampHour(hour), ch)]
}

// Override is a manual intensity setting that supersedes the schedule.
// When Active is false the level fields are stale and must not be read.
type Override struct {
	Active bool
	LevelA uint8
	LevelB uint8
}

// Levels is a resolved pair of channel intensities.
type Levels struct {
	A uint8
	B uint8
}
