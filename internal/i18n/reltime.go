package i18n

import "time"

const day = 24 * time.Hour

// RelativeTime describes how long ago t was, e.g. "3 hours ago".
func RelativeTime(t time.Time) string {
	return relativeTime(t, time.Now())
}

func relativeTime(t, now time.Time) string {
	d := max(now.Sub(t), 0)
	switch {
	case d < time.Minute:
		return T("common.time.justNow", "just now")
	case d < time.Hour:
		return ago(int(d/time.Minute), "common.time.oneMinAgo", "1 min ago", "common.time.minsAgo", "%d mins ago")
	case d < day:
		return ago(int(d/time.Hour), "common.time.oneHourAgo", "1 hour ago", "common.time.hoursAgo", "%d hours ago")
	default:
		return ago(int(d/day), "common.time.oneDayAgo", "1 day ago", "common.time.daysAgo", "%d days ago")
	}
}

func ago(n int, oneID, one, manyID, many string) string {
	if n == 1 {
		return T(oneID, one)
	}
	return Tf(manyID, many, n)
}

// RelativeTimeShort is the compact form used in thread lists: "today",
// "1d ago", "5d ago", "2mo ago", "1y ago". A zero time renders empty.
func RelativeTimeShort(t time.Time) string {
	return relativeTimeShort(t, time.Now())
}

func relativeTimeShort(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := max(now.Sub(t), 0)
	switch {
	case d < day:
		return T("common.time.short.today", "today")
	case d < 2*day:
		return T("common.time.short.oneDayAgo", "1d ago")
	case d < 30*day:
		return Tf("common.time.short.daysAgo", "%dd ago", int(d/day))
	case d < 365*day:
		return Tf("common.time.short.monthsAgo", "%dmo ago", int(d/(30*day)))
	default:
		return Tf("common.time.short.yearsAgo", "%dy ago", int(d/(365*day)))
	}
}
