// Package format holds the display formatting helpers shared by console
// output: dates, relative times, byte sizes, uptimes.
package format

import (
	"fmt"
	"time"
)

// Date renders a timestamp for detail views. The zero time renders as
// "Never", matching how the backend reports never-used credentials.
func Date(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// DateShort renders a timestamp for table cells.
func DateShort(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format("Jan 2, 06")
}

// Relative renders a timestamp as a distance from now ("5m ago", "in 2h").
func Relative(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	d := time.Since(t)
	suffix := " ago"
	if d < 0 {
		d = -d
		suffix = ""
	}

	var out string
	switch {
	case d < time.Minute:
		out = "just now"
		suffix = ""
	case d < time.Hour:
		out = fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		out = fmt.Sprintf("%dh", int(d.Hours()))
	default:
		out = fmt.Sprintf("%dd", int(d.Hours()/24))
	}
	if suffix == "" && out != "just now" {
		out = "in " + out
	}
	return out + suffix
}

// Bytes renders a byte count with a binary unit.
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Uptime renders a duration in seconds as "3d 4h 5m".
func Uptime(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// Percent renders a 0..1 ratio as a percentage with one decimal.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
