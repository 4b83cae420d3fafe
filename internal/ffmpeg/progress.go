package ffmpeg

import (
	"strconv"
	"strings"
)

// progressParser folds ffmpeg's -progress key=value lines into fractional
// progress against a known source duration. Without a duration it degrades
// to coarse milestones: a small fraction once output starts, 1.0 at the end.
type progressParser struct {
	duration float64
	started  bool
}

const (
	coarseStart = 0.02
	preTermCap  = 0.99
)

// feed consumes one progress line and reports the fraction it implies.
// ok is false for lines that carry no progress information.
func (p *progressParser) feed(line string) (fraction float64, terminal bool, ok bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return 0, false, false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "progress":
		if value == "end" {
			return 1, true, true
		}
		return 0, false, false
	case "out_time_ms", "out_time_us":
		// Both keys report microseconds in current ffmpeg builds.
		micros, err := strconv.ParseFloat(value, 64)
		if err != nil || micros < 0 {
			return 0, false, false
		}
		p.started = true
		if p.duration <= 0 {
			return coarseStart, false, true
		}
		fraction = (micros / 1e6) / p.duration
		if fraction < 0 {
			fraction = 0
		}
		if fraction > preTermCap {
			fraction = preTermCap
		}
		return fraction, false, true
	default:
		return 0, false, false
	}
}
