package sim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FramesPerSecond is the game's fixed frame rate. Every duration in the
// simulator is an integer number of frames at this rate.
const FramesPerSecond = 30

// Frame is the atomic unit of simulated time (1/30 s).
type Frame int

// Seconds returns the frame count as wall-clock seconds.
func (f Frame) Seconds() float64 {
	return float64(f) / FramesPerSecond
}

// Timestamp formats the frame count as hh:mm:ss, truncating partial seconds.
func (f Frame) Timestamp() string {
	seconds := int(f) / FramesPerSecond
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ParseTimestamp converts "mm:ss[.fff]" or "hh:mm:ss[.fff]" into frames,
// rounding to the nearest frame.
func ParseTimestamp(s string) (Frame, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("timestamp %q: want mm:ss or hh:mm:ss", s)
	}
	hours := 0
	if len(parts) == 3 {
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("timestamp %q: hours: %w", s, err)
		}
		hours = h
		parts = parts[1:]
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: minutes: %w", s, err)
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("timestamp %q: seconds: %w", s, err)
	}
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("timestamp %q: negative component", s)
	}
	total := float64((hours*60+minutes)*60) + seconds
	return Frame(math.Round(total * FramesPerSecond)), nil
}

// MicrosecondsToFrames rounds a recorded microsecond duration to the nearest frame.
func MicrosecondsToFrames(us float64) Frame {
	return Frame(math.Round(us / 1e6 * FramesPerSecond))
}
