// file: pkg/adf/timeconv.go

package adf

import "time"

// amigaEpochOffset is the number of seconds between the Unix epoch
// (1 Jan 1970) and the Amiga epoch (1 Jan 1978): 2922 days.
const amigaEpochOffset = 2922 * 24 * 60 * 60

const (
	ticksPerSecond = 50
	secondsPerDay  = 24 * 60 * 60
)

// amigaToUnix converts an Amiga (days, mins, ticks) triple to a Unix
// timestamp in seconds.
func amigaToUnix(days, mins, ticks uint32) int64 {
	seconds := int64(days)*secondsPerDay + int64(mins)*60 + int64(ticks)/ticksPerSecond
	return seconds + amigaEpochOffset
}

// unixToAmiga converts a Unix timestamp in seconds to an Amiga
// (days, mins, ticks) triple. Times before the Amiga epoch clamp to
// zero.
func unixToAmiga(unix int64) (days, mins, ticks uint32) {
	t := unix - amigaEpochOffset
	if t < 0 {
		t = 0
	}
	days = uint32(t / secondsPerDay)
	t %= secondsPerDay
	mins = uint32(t / 60)
	t %= 60
	ticks = uint32(t) * ticksPerSecond
	return
}

func amigaToTime(days, mins, ticks uint32) time.Time {
	return time.Unix(amigaToUnix(days, mins, ticks), 0).UTC()
}

func nowAmiga() (days, mins, ticks uint32) {
	return unixToAmiga(time.Now().Unix())
}
