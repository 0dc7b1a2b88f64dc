package formatter

import "fmt"

// Seconds formats a duration in seconds as "2h05m" / "5m" / "42s".
// The live timer view uses Clock instead; this is for summaries.
func Seconds(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := secs % 3600 / 60
	s := secs % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Clock formats seconds as "h:mm:ss" for the live timer display.
func Clock(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

// PersonHours formats a person-hours value, e.g. "3.5 ph".
func PersonHours(ph float64) string {
	return fmt.Sprintf("%.1f ph", ph)
}

// Pct formats a percentage with no decimals.
func Pct(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}
