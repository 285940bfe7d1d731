package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Minutes converts fractional minutes into human-friendly format, rounding
// to the nearest minute.
func Minutes(min float64) string {
	total := int(math.Round(min))
	if total <= 0 {
		return "0m"
	}
	h := total / 60
	m := total % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// TimeRange renders a start/end pair on a timeline. Open intervals show an
// arrow instead of an end time.
func TimeRange(start, end time.Time, open bool) string {
	const layout = "Jan 2 15:04"
	if open {
		return start.Local().Format(layout) + " → " + StyleGreen.Render("now")
	}
	return start.Local().Format(layout) + " → " + end.Local().Format(layout)
}

// Bar renders a proportional horizontal bar of at most width cells.
func Bar(value, max float64, width int) string {
	if max <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := int(math.Round(value / max * float64(width)))
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return StyleBlue.Render(strings.Repeat("█", n))
}
