package models

import "testing"

func TestValidateSplit(t *testing.T) {
	tests := []struct {
		name             string
		spend, save, give int
		wantErr          bool
	}{
		{"default split", 50, 40, 10, false},
		{"all spend", 100, 0, 0, false},
		{"sums under 100", 50, 40, 5, true},
		{"sums over 100", 50, 40, 20, true},
		{"negative bucket", 120, -30, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSplit(tt.spend, tt.save, tt.give)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSplit(%d, %d, %d) error = %v, wantErr %v", tt.spend, tt.save, tt.give, err, tt.wantErr)
			}
		})
	}
}

func TestValidTimezone(t *testing.T) {
	if !ValidTimezone("America/New_York") {
		t.Error("America/New_York should be valid")
	}
	if ValidTimezone("Mars/Olympus_Mons") {
		t.Error("unknown timezone should be invalid")
	}
}

func TestTimeRatingLabel(t *testing.T) {
	if got := TimeRatingLabel(TimeRatingQuick); got != "Quick" {
		t.Errorf("got %s, want Quick", got)
	}
	if got := TimeRatingLabel(TimeRating(9)); got != "Average" {
		t.Errorf("out-of-range rating should fall back to Average, got %s", got)
	}
}
