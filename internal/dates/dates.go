// Package dates holds the timestamp conventions shared by the Bitable
// tables and the reporting tools: the tables store millisecond Unix
// timestamps, the tools speak "YYYY-MM-DD HH:MM:SS" strings.
package dates

import "time"

const Layout = "2006-01-02 15:04:05"

const dayLayout = "2006-01-02"

// TimestampToDatetime converts a millisecond Unix timestamp to its
// datetime string form.
func TimestampToDatetime(timestampMs int64) string {
	return time.UnixMilli(timestampMs).Format(Layout)
}

// DatetimeToTimestamp converts a "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD"
// string to a millisecond Unix timestamp. Malformed input yields 0.
func DatetimeToTimestamp(value string) int64 {
	if t, err := time.ParseInLocation(Layout, value, time.Local); err == nil {
		return t.UnixMilli()
	}
	if t, err := time.ParseInLocation(dayLayout, value, time.Local); err == nil {
		return t.UnixMilli()
	}
	return 0
}

// AdjustTimestamp shifts a millisecond timestamp by days and hours.
func AdjustTimestamp(timestampMs int64, days, hours int) int64 {
	t := time.UnixMilli(timestampMs)
	t = t.AddDate(0, 0, days).Add(time.Duration(hours) * time.Hour)
	return t.UnixMilli()
}

// AdjustDatetimeStr shifts a date string by days, normalizing the time
// component to midnight. Unparseable input is returned unchanged.
func AdjustDatetimeStr(value string, days int) string {
	t, err := time.ParseInLocation(dayLayout, value[:min(len(value), len(dayLayout))], time.Local)
	if err != nil {
		return value
	}
	return t.AddDate(0, 0, days).Format(dayLayout) + " 00:00:00"
}

// IsTimestamp reports whether v looks like a millisecond Unix timestamp
// (a number of plausible magnitude). Bitable primary-key fields are
// either timestamps or strings; this picks the former.
func IsTimestamp(v any) (int64, bool) {
	var ms int64
	switch n := v.(type) {
	case int64:
		ms = n
	case int:
		ms = int64(n)
	case float64:
		ms = int64(n)
	default:
		return 0, false
	}
	// Between 2001-09-09 and 2286-11-20 in milliseconds.
	if ms < 1e12 || ms >= 1e13 {
		return 0, false
	}
	return ms, true
}

// FormatDateRange widens a [start, end] query window so that a Bitable
// "isGreater"/"isLess" pair is inclusive of the requested days: the
// start moves back two days (one when it is today) and the end moves
// forward two days. Both ends are normalized to midnight.
func FormatDateRange(startDate, endDate string) (string, string) {
	today := time.Now().Format(dayLayout)

	startAdjust := -2
	if startDate == today {
		startAdjust = -1
	}
	return AdjustDatetimeStr(startDate, startAdjust), AdjustDatetimeStr(endDate, 2)
}
