package dates

import (
	"testing"
	"time"
)

func TestTimestampRoundTrip(t *testing.T) {
	const value = "2024-11-15 00:00:00"
	ms := DatetimeToTimestamp(value)
	if ms == 0 {
		t.Fatalf("DatetimeToTimestamp(%q) = 0", value)
	}
	if got := TimestampToDatetime(ms); got != value {
		t.Errorf("round trip = %q, want %q", got, value)
	}
}

func TestDatetimeToTimestamp_DayOnly(t *testing.T) {
	day := DatetimeToTimestamp("2024-11-15")
	full := DatetimeToTimestamp("2024-11-15 00:00:00")
	if day != full {
		t.Errorf("day-only form = %d, full form = %d", day, full)
	}
	if DatetimeToTimestamp("not a date") != 0 {
		t.Error("malformed input should yield 0")
	}
}

func TestAdjustTimestamp(t *testing.T) {
	base := DatetimeToTimestamp("2024-09-16 00:00:00")
	got := AdjustTimestamp(base, 1, 1)
	if want := DatetimeToTimestamp("2024-09-17 01:00:00"); got != want {
		t.Errorf("AdjustTimestamp = %s, want %s", TimestampToDatetime(got), TimestampToDatetime(want))
	}
	if back := AdjustTimestamp(got, -1, -1); back != base {
		t.Errorf("inverse adjustment = %d, want %d", back, base)
	}
}

func TestAdjustDatetimeStr(t *testing.T) {
	tests := []struct {
		in   string
		days int
		want string
	}{
		{"2024-12-24", -1, "2024-12-23 00:00:00"},
		{"2024-12-24 16:00:00", 2, "2024-12-26 00:00:00"},
		{"2025-01-01", 0, "2025-01-01 00:00:00"},
		{"garbage", 3, "garbage"},
	}
	for _, tt := range tests {
		if got := AdjustDatetimeStr(tt.in, tt.days); got != tt.want {
			t.Errorf("AdjustDatetimeStr(%q, %d) = %q, want %q", tt.in, tt.days, got, tt.want)
		}
	}
}

func TestIsTimestamp(t *testing.T) {
	if _, ok := IsTimestamp(int64(1731628800000)); !ok {
		t.Error("millisecond timestamp not recognized")
	}
	if _, ok := IsTimestamp(float64(1731628800000)); !ok {
		t.Error("float64 timestamp not recognized (JSON numbers decode as float64)")
	}
	for _, v := range []any{"2024-11-15", int64(42), 3.14, nil, true} {
		if _, ok := IsTimestamp(v); ok {
			t.Errorf("IsTimestamp(%v) = true, want false", v)
		}
	}
}

func TestFormatDateRange(t *testing.T) {
	start, end := FormatDateRange("2024-11-14", "2024-11-16")
	if start != "2024-11-12 00:00:00" {
		t.Errorf("start = %q, want padded -2 days", start)
	}
	if end != "2024-11-18 00:00:00" {
		t.Errorf("end = %q, want padded +2 days", end)
	}

	today := time.Now().Format("2006-01-02")
	start, _ = FormatDateRange(today, today)
	want := time.Now().AddDate(0, 0, -1).Format("2006-01-02") + " 00:00:00"
	if start != want {
		t.Errorf("start for today = %q, want -1 day %q", start, want)
	}
}
