// Package models contains data structures used throughout the library
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockToMinutes converts an "HH:MM" string to minutes from midnight.
// Malformed or empty input yields 0 rather than an error: a meal without a
// usable time is filtered out upstream, it must never abort a computation.
func ClockToMinutes(clock string) int {
	if clock == "" {
		return 0
	}

	parts := strings.SplitN(clock, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m := 0
	if len(parts) > 1 {
		m, _ = strconv.Atoi(parts[1])
	}

	if h < 0 {
		h = 0
	}
	if m < 0 {
		m = 0
	}

	return h*60 + m
}

// MinutesToClock converts minutes from midnight to an "HH:MM" string,
// wrapping past midnight.
func MinutesToClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := (minutes / 60) % 24
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatDuration renders a minute count as a compact human duration.
func FormatDuration(minutes float64) string {
	if minutes <= 0 {
		return "0m"
	}
	total := int(minutes + 0.5)
	h := total / 60
	m := total % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// SleepHours computes slept hours from "HH:MM" start/end, handling the
// overnight wrap. Returns 0 when either bound is missing.
func SleepHours(start, end string) float64 {
	if start == "" || end == "" {
		return 0
	}

	startMin := ClockToMinutes(start)
	endMin := ClockToMinutes(end)

	diff := endMin - startMin
	if diff < 0 {
		diff += 24 * 60
	}

	return float64(diff) / 60
}
