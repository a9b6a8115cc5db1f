package wizard

import (
	"reflect"
	"testing"
	"time"
)

func TestWeekDates(t *testing.T) {
	dates, err := WeekDates("2026-02-28")
	if err != nil {
		t.Fatalf("WeekDates returned error: %v", err)
	}

	want := []string{
		"2026-02-28", "2026-03-01", "2026-03-02", "2026-03-03",
		"2026-03-04", "2026-03-05", "2026-03-06",
	}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("got %v, want %v", dates, want)
	}
}

func TestWeekDatesInvalidAnchor(t *testing.T) {
	if _, err := WeekDates("not-a-date"); err == nil {
		t.Error("expected error for invalid anchor")
	}
}

// The same anchor must yield the same seven dates no matter what
// timezone the server runs in; a DST transition or a far-offset host
// must never shift a date.
func TestWeekDatesTimezoneInvariance(t *testing.T) {
	zones := []string{"UTC", "America/New_York", "Pacific/Kiritimati", "Pacific/Midway"}

	want, err := WeekDates("2026-03-07") // US DST starts 2026-03-08
	if err != nil {
		t.Fatalf("WeekDates returned error: %v", err)
	}

	original := time.Local
	defer func() { time.Local = original }()

	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			t.Fatalf("LoadLocation(%s): %v", zone, err)
		}
		time.Local = loc

		got, err := WeekDates("2026-03-07")
		if err != nil {
			t.Fatalf("WeekDates in %s returned error: %v", zone, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("in %s got %v, want %v", zone, got, want)
		}
	}
}

func TestDayDate(t *testing.T) {
	tests := []struct {
		day  int
		want string
	}{
		{1, "2026-08-22"},
		{2, "2026-08-23"},
		{7, "2026-08-28"},
	}
	for _, tt := range tests {
		got, err := DayDate("2026-08-22", tt.day)
		if err != nil {
			t.Fatalf("DayDate(day=%d) returned error: %v", tt.day, err)
		}
		if got != tt.want {
			t.Errorf("DayDate(day=%d) = %s, want %s", tt.day, got, tt.want)
		}
	}

	for _, day := range []int{0, 8, -1} {
		if _, err := DayDate("2026-08-22", day); err == nil {
			t.Errorf("expected error for day %d", day)
		}
	}
}

func TestMostRecentAnchor(t *testing.T) {
	tests := []struct {
		name  string
		today time.Time
		want  string
	}{
		{"saturday is its own anchor", time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC), "2026-08-22"},
		{"sunday goes back one day", time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), "2026-08-22"},
		{"friday goes back six days", time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC), "2026-08-22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MostRecentAnchor(tt.today); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnchorOptions(t *testing.T) {
	today := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) // a Tuesday
	existing := map[string]bool{"2026-08-29": true}

	options := AnchorOptions(today, existing)

	if len(options) != 8 {
		t.Fatalf("got %d options, want 8", len(options))
	}
	if options[0].WeekOf != "2026-08-22" {
		t.Errorf("first option = %s, want 2026-08-22", options[0].WeekOf)
	}

	// Consecutive Saturdays, seven days apart
	for i := 1; i < len(options); i++ {
		prev, _ := time.Parse("2006-01-02", options[i-1].WeekOf)
		cur, _ := time.Parse("2006-01-02", options[i].WeekOf)
		if cur.Sub(prev) != 7*24*time.Hour {
			t.Errorf("options %d and %d are not a week apart: %s, %s", i-1, i, options[i-1].WeekOf, options[i].WeekOf)
		}
	}

	for _, opt := range options {
		want := opt.WeekOf == "2026-08-29"
		if opt.HasPlan != want {
			t.Errorf("HasPlan for %s = %v, want %v", opt.WeekOf, opt.HasPlan, want)
		}
	}
}
