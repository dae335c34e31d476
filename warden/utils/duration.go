package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ParseDuration parses moderation-style durations like "2d", "1d12h",
// "30m" or "1h 30m 15s". Units above days are intentionally unsupported.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var total time.Duration
	var num int64
	var hasNum, matched bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			num = num*10 + int64(r-'0')
			hasNum = true
		case r == 'd' || r == 'h' || r == 'm' || r == 's':
			if !hasNum {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			switch r {
			case 'd':
				total += time.Duration(num) * 24 * time.Hour
			case 'h':
				total += time.Duration(num) * time.Hour
			case 'm':
				total += time.Duration(num) * time.Minute
			case 's':
				total += time.Duration(num) * time.Second
			}
			num, hasNum, matched = 0, false, true
		default:
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}
	if hasNum || !matched {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}

// FormatDuration renders a duration the way moderators read it,
// e.g. "1 day 2 hours 30 minutes".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)
	seconds := int64(d/time.Second) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d day%s", days, plural(days)))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hour%s", hours, plural(hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minute%s", minutes, plural(minutes)))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%d second%s", seconds, plural(seconds)))
	}
	if len(parts) == 0 {
		return "less than a second"
	}
	return strings.Join(parts, " ")
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FormatTimestamp renders a Discord timestamp markdown tag.
func FormatTimestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// Ordinal returns "1st", "2nd", "3rd", "4th" and so on.
func Ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
