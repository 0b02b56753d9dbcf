package server

import (
	"fmt"
	"html/template"
	"strconv"
)

// templateFuncs returns the formatting helpers the dashboard templates use.
// Every helper tolerates nil and non-numeric input and renders "N/A" instead
// of failing the page.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatBytes":        formatBytes,
		"formatGigabytes":    formatGigabytes,
		"formatMinutes":      formatMinutes,
		"formatUsageMinutes": formatUsageMinutes,
	}
}

// toFloat converts the numeric shapes that show up in decoded JSON.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func formatBytes(v interface{}) string {
	size, ok := toFloat(v)
	if !ok {
		return "N/A"
	}
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f PB", size)
}

// formatGigabytes formats a value that is already in gigabytes.
func formatGigabytes(v interface{}) string {
	gb, ok := toFloat(v)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f GB", gb)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// formatMinutes renders a duration in minutes as the largest sensible units.
func formatMinutes(v interface{}) string {
	f, ok := toFloat(v)
	if !ok {
		return "N/A"
	}
	minutes := int(f)
	if minutes == 0 {
		return "0 minutes"
	}

	switch {
	case minutes < 60:
		return plural(minutes, "minute")
	case minutes < 1440:
		hours := minutes / 60
		rest := minutes % 60
		if rest == 0 {
			return plural(hours, "hour")
		}
		return plural(hours, "hour") + " " + plural(rest, "minute")
	default:
		days := minutes / 1440
		hours := (minutes % 1440) / 60
		if hours == 0 {
			return plural(days, "day")
		}
		return plural(days, "day") + " " + plural(hours, "hour")
	}
}

// formatUsageMinutes always renders "X hours Y minutes", zeroes included.
func formatUsageMinutes(v interface{}) string {
	f, ok := toFloat(v)
	if !ok {
		return "0 hours 0 minutes"
	}
	minutes := int(f)
	return plural(minutes/60, "hour") + " " + plural(minutes%60, "minute")
}
