package helpers

import (
	"fmt"
	"math"
	"time"
)

// RoundPrice rounds to 2 decimal places. The calculator keeps full
// precision internally; rounding happens only here, at presentation time.
func RoundPrice(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatPrice formats an amount for display (e.g. 457.7824 -> "$457.78").
func FormatPrice(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatPercent formats a rate for display (e.g. 0.15 -> "15%").
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// FormatGrams formats a weight for display.
func FormatGrams(grams float64) string {
	return fmt.Sprintf("%.0f g", grams)
}

// FormatHours formats a print duration for display.
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1f h", hours)
}

// FormatFileSize formats a byte count as a human-readable size.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatDate formats a time.Time as "Jan 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatTimeAgo renders a relative timestamp for the admin draft list.
func FormatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}
