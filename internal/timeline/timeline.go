// Package timeline places a night of sleep on a 24-hour axis.
//
// All values are percentages of a day so a renderer can position the sleep
// bar and the disturbance markers without knowing anything about clocks.
package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yourname/sleepscope/internal"
)

const MinutesPerDay = 24 * 60

// Metrics is the rendering geometry of one SleepRecord.
type Metrics struct {
	SleepStartPercent    float64   `json:"sleep_start_percent"`
	SleepDurationPercent float64   `json:"sleep_duration_percent"`
	TotalMinutes         int       `json:"total_minutes"`
	TotalDurationHours   int       `json:"total_duration_hours"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
	DisturbancePositions []float64 `json:"disturbance_positions"`
}

// Calculate maps a record onto the day axis. A wake time earlier than the
// bedtime is taken to be on the following day.
//
// A time that is not a valid 24-hour "HH:MM" yields the zero Metrics, and a
// negative disturbance count places no markers.
func Calculate(rec internal.SleepRecord) Metrics {
	bed, err := ParseClock(rec.Bedtime)
	if err != nil {
		return Metrics{DisturbancePositions: []float64{}}
	}
	wake, err := ParseClock(rec.WakeupTime)
	if err != nil {
		return Metrics{DisturbancePositions: []float64{}}
	}
	if wake < bed {
		wake += MinutesPerDay
	}
	total := wake - bed

	return Metrics{
		SleepStartPercent:    percentOfDay(bed),
		SleepDurationPercent: percentOfDay(total),
		TotalMinutes:         total,
		TotalDurationHours:   total / 60,
		TotalDurationMinutes: total % 60,
		DisturbancePositions: disturbancePositions(rec.Disturbances, total),
	}
}

// ParseClock returns the minute of the day for "H:MM" or "HH:MM".
func ParseClock(s string) (int, error) {
	t := strings.TrimSpace(s)
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("timeline: invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("timeline: invalid time %q, expected HH:MM", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("timeline: invalid time %q, expected HH:MM", s)
	}
	return h*60 + m, nil
}

// FormatDuration renders minutes as "8h 5m".
func FormatDuration(min int) string {
	if min < 0 {
		min = -min
	}
	return fmt.Sprintf("%dh %dm", min/60, min%60)
}

// AxisTick is a labelled hour mark on the day axis.
type AxisTick struct {
	Label   string
	Percent float64
}

// AxisTicks returns marks every six hours from 00:00 to 24:00.
func AxisTicks() []AxisTick {
	ticks := make([]AxisTick, 0, 5)
	for h := 0; h <= 24; h += 6 {
		ticks = append(ticks, AxisTick{
			Label:   fmt.Sprintf("%02d:00", h),
			Percent: percentOfDay(h * 60),
		})
	}
	return ticks
}

func percentOfDay(min int) float64 {
	return float64(min) / MinutesPerDay * 100
}

// disturbancePositions spreads n markers evenly inside the interval, never
// on its endpoints. An empty interval gets no markers.
func disturbancePositions(n, total int) []float64 {
	positions := []float64{}
	if n <= 0 || total <= 0 {
		return positions
	}
	for i := 1; i <= n; i++ {
		positions = append(positions, float64(i)/float64(n+1)*100)
	}
	return positions
}
