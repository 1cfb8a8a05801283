// Package numfmt provides the number and duration formatting used by every
// driver's progress and results output. Each function returns an owned
// string rather than writing into a shared static buffer.
package numfmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Comma renders n with thousands separators, e.g. 1000000 -> "1,000,000".
func Comma(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}

	var sb strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// ParseNumber parses a number that may be in scientific notation
// (e.g. "1e12", "2.5e9") or plain decimal, mirroring the reference
// implementation's permissive argument parser.
func ParseNumber(s string) (uint64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0, fmt.Errorf("numfmt: negative value %q", s)
		}
		return uint64(f), nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// Duration renders a duration as used by the drivers' ETA and total-time
// output: "42s", "3m 7s", "2h 14m", "1d 3h" depending on magnitude.
func Duration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.0fs", seconds)
	case seconds < 3600:
		mins := int(seconds / 60)
		secs := int(seconds) % 60
		return fmt.Sprintf("%dm %ds", mins, secs)
	case seconds < 86400:
		hours := int(seconds / 3600)
		mins := (int(seconds) % 3600) / 60
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		days := int(seconds / 86400)
		hours := (int(seconds) % 86400) / 3600
		return fmt.Sprintf("%dd %dh", days, hours)
	}
}

// Rate renders a per-second throughput using the K/M suffix convention
// shared across the driver progress lines.
func Rate(perSecond float64) string {
	switch {
	case perSecond >= 1_000_000:
		return fmt.Sprintf("%.1fM/s", perSecond/1_000_000)
	case perSecond >= 1_000:
		return fmt.Sprintf("%.1fK/s", perSecond/1_000)
	default:
		return fmt.Sprintf("%.0f/s", perSecond)
	}
}

// Bytes renders a byte count as a human-readable size string.
func Bytes(n uint64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/(1024*1024*1024))
	}
}
