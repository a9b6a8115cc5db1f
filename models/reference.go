package models

// Shared lookup tables. These used to be duplicated across pages and
// drifted out of sync; every consumer now reads them from here. The
// accessor functions return copies so callers cannot mutate the
// reference data.

var departmentOrder = []string{
	"Produce",
	"Bakery",
	"Deli",
	"Meat & Seafood",
	"Dairy",
	"Frozen",
	"Canned Goods",
	"Dry Goods",
	"Baking",
	"Snacks",
	"Beverages",
	"Household",
	"Personal Care",
	"Other",
}

// DepartmentOrder returns the default walk order used to sort grocery
// lists when a store has no override.
func DepartmentOrder() []string {
	out := make([]string, len(departmentOrder))
	copy(out, departmentOrder)
	return out
}

var timeRatingLabels = map[TimeRating]string{
	TimeRatingQuick:    "Quick",
	TimeRatingAverage:  "Average",
	TimeRatingInvolved: "Involved",
}

func TimeRatingLabel(r TimeRating) string {
	if label, ok := timeRatingLabels[r]; ok {
		return label
	}
	return "Average"
}

var recipeCategories = []string{
	"Beef",
	"Chicken",
	"Pork",
	"Seafood",
	"Pasta",
	"Vegetarian",
	"Soup",
	"Breakfast",
	"Other",
}

func RecipeCategories() []string {
	out := make([]string, len(recipeCategories))
	copy(out, recipeCategories)
	return out
}

var timezoneGroups = map[string][]string{
	"US": {
		"America/New_York",
		"America/Chicago",
		"America/Denver",
		"America/Phoenix",
		"America/Los_Angeles",
		"America/Anchorage",
		"Pacific/Honolulu",
	},
	"Europe": {
		"Europe/London",
		"Europe/Paris",
		"Europe/Berlin",
		"Europe/Madrid",
		"Europe/Lisbon",
	},
	"Other": {
		"UTC",
		"Australia/Sydney",
		"Asia/Tokyo",
		"America/Sao_Paulo",
	},
}

// TimezoneGroups returns the timezones offered in settings, grouped
// for display.
func TimezoneGroups() map[string][]string {
	out := make(map[string][]string, len(timezoneGroups))
	for group, zones := range timezoneGroups {
		zs := make([]string, len(zones))
		copy(zs, zones)
		out[group] = zs
	}
	return out
}

// ValidTimezone reports whether tz appears in any timezone group.
func ValidTimezone(tz string) bool {
	for _, zones := range timezoneGroups {
		for _, z := range zones {
			if z == tz {
				return true
			}
		}
	}
	return false
}
