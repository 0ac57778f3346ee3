// Package clock keeps device-local time. A one-second tick advances it
// between NTP resyncs, so scheduling keeps working when the network is
// down. Timezone conversion follows two explicit seasonal rules instead
// of the system tz database: the device must behave the same regardless
// of what the host OS ships.
package clock

import "time"

// TimeChangeRule describes one seasonal transition: at LocalHour on the
// last Sunday of Month, the offset becomes OffsetMin minutes east of UTC.
// LocalHour is expressed in the local time valid just before the change.
type TimeChangeRule struct {
	Name      string
	Month     time.Month
	LocalHour int
	OffsetMin int
}

// Central European Time (Amsterdam, Frankfurt, Paris).
var (
	RuleCEST = TimeChangeRule{Name: "CEST", Month: time.March, LocalHour: 2, OffsetMin: 120}
	RuleCET  = TimeChangeRule{Name: "CET", Month: time.October, LocalHour: 3, OffsetMin: 60}
)

// Zone converts UTC instants to local time using a summer and a winter rule.
type Zone struct {
	Summer TimeChangeRule
	Winter TimeChangeRule
}

// CentralEuropean is the zone the device ships with.
var CentralEuropean = Zone{Summer: RuleCEST, Winter: RuleCET}

// ToLocal converts a UTC instant to local wall time.
func (z Zone) ToLocal(utc time.Time) time.Time {
	return utc.Add(z.Offset(utc))
}

// Offset returns the UTC offset in effect at the given UTC instant.
func (z Zone) Offset(utc time.Time) time.Duration {
	summerStart := z.transition(utc.Year(), z.Summer, z.Winter)
	winterStart := z.transition(utc.Year(), z.Winter, z.Summer)
	if !utc.Before(summerStart) && utc.Before(winterStart) {
		return time.Duration(z.Summer.OffsetMin) * time.Minute
	}
	return time.Duration(z.Winter.OffsetMin) * time.Minute
}

// transition returns the UTC instant at which rule `to` takes effect.
// The rule's LocalHour is interpreted in the offset of the rule being
// left (`from`).
func (z Zone) transition(year int, to, from TimeChangeRule) time.Time {
	d := LastSunday(year, to.Month)
	local := time.Date(year, to.Month, d.Day(), to.LocalHour, 0, 0, 0, time.UTC)
	return local.Add(-time.Duration(from.OffsetMin) * time.Minute)
}

// LastSunday returns the date of the last Sunday of the given month.
func LastSunday(year int, m time.Month) time.Time {
	// Last day of the month, then walk back to a Sunday.
	d := time.Date(year, m+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() != time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
