package domain

import (
	"testing"
	"time"
)

func TestResolvePeriod(t *testing.T) {
	t.Parallel()

	day := func(hour, min int) time.Time {
		return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		now  time.Time
		want string
		ok   bool
	}{
		{name: "morning check exact", now: day(8, 10), want: "MORNING", ok: true},
		{name: "morning check early", now: day(8, 5), want: "MORNING", ok: true},
		{name: "morning check late", now: day(8, 15), want: "MORNING", ok: true},
		{name: "afternoon check", now: day(14, 40), want: "AFTERNOON", ok: true},
		{name: "just outside window", now: day(8, 16), ok: false},
		{name: "midnight", now: day(0, 0), ok: false},
		{name: "midday", now: day(11, 30), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			period, ok := ResolvePeriod(tt.now)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && period.Name != tt.want {
				t.Fatalf("period = %s, want %s", period.Name, tt.want)
			}
		})
	}
}

func TestPeriodWrapsMidnight(t *testing.T) {
	t.Parallel()

	morning := AnalysisPeriods[0]
	if !morning.WrapsMidnight() {
		t.Fatal("morning window must wrap midnight")
	}

	afternoon := AnalysisPeriods[1]
	if afternoon.WrapsMidnight() {
		t.Fatal("afternoon window must not wrap midnight")
	}
}

func TestUsageTotalTokens(t *testing.T) {
	t.Parallel()

	u := Usage{InputTokens: 1200, OutputTokens: 345}
	if u.TotalTokens() != 1545 {
		t.Fatalf("TotalTokens = %d, want 1545", u.TotalTokens())
	}
}
