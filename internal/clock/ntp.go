package clock

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// TimeSource supplies UTC instants for resync.
type TimeSource interface {
	// UTC fetches the current UTC time. An error means the source is
	// unreachable; the caller keeps running on tick-accumulated time.
	UTC() (time.Time, error)
}

// NTPSource queries an NTP server.
type NTPSource struct {
	Host string
}

// NewNTPSource creates a TimeSource for the given NTP server.
func NewNTPSource(host string) *NTPSource {
	return &NTPSource{Host: host}
}

// UTC queries the server once.
func (s *NTPSource) UTC() (time.Time, error) {
	t, err := ntp.Time(s.Host)
	if err != nil {
		return time.Time{}, fmt.Errorf("ntp query %s: %w", s.Host, err)
	}
	return t.UTC(), nil
}

// FakeSource is a scripted TimeSource for tests.
type FakeSource struct {
	// Time is returned by UTC when Err is nil.
	Time time.Time

	// Err, if set, is returned by UTC.
	Err error

	// Calls counts UTC invocations.
	Calls int
}

// UTC returns the scripted time or error.
func (f *FakeSource) UTC() (time.Time, error) {
	f.Calls++
	if f.Err != nil {
		return time.Time{}, f.Err
	}
	return f.Time, nil
}
