package wizard

import (
	"fmt"
	"time"
)

// Weeks are anchored on Saturday: day 1 of every plan is a Saturday
// and the week runs through the following Friday.
const AnchorWeekday = time.Saturday

const dateLayout = "2006-01-02"

// WeekDates returns the seven consecutive dates starting at the
// anchor. Arithmetic is done on calendar fields so the result is the
// same in every host timezone.
func WeekDates(weekOf string) ([]string, error) {
	t, err := time.Parse(dateLayout, weekOf)
	if err != nil {
		return nil, fmt.Errorf("invalid week anchor %q: %w", weekOf, err)
	}
	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = t.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates, nil
}

// DayDate returns the date for day 1-7 of the given week.
func DayDate(weekOf string, day int) (string, error) {
	if day < 1 || day > 7 {
		return "", fmt.Errorf("day must be 1-7, got %d", day)
	}
	t, err := time.Parse(dateLayout, weekOf)
	if err != nil {
		return "", fmt.Errorf("invalid week anchor %q: %w", weekOf, err)
	}
	return t.AddDate(0, 0, day-1).Format(dateLayout), nil
}

// MostRecentAnchor returns the most recent Saturday on or before the
// given day. If today is a Saturday the answer is today.
func MostRecentAnchor(today time.Time) string {
	y, m, d := today.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	back := (int(t.Weekday()) - int(AnchorWeekday) + 7) % 7
	return t.AddDate(0, 0, -back).Format(dateLayout)
}

// WeekOption is one selectable week anchor, annotated with whether a
// plan already exists for it.
type WeekOption struct {
	WeekOf  string `json:"week_of"`
	HasPlan bool   `json:"has_plan"`
}

// AnchorOptions enumerates the most recent anchor plus the next seven
// weekly occurrences: always exactly 8 options.
func AnchorOptions(today time.Time, existing map[string]bool) []WeekOption {
	first, _ := time.Parse(dateLayout, MostRecentAnchor(today))
	options := make([]WeekOption, 8)
	for i := 0; i < 8; i++ {
		weekOf := first.AddDate(0, 0, 7*i).Format(dateLayout)
		options[i] = WeekOption{WeekOf: weekOf, HasPlan: existing[weekOf]}
	}
	return options
}
