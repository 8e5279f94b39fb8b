package engine

import (
	"testing"

	"github.com/worldsmith/almanac/internal/model"
)

// twoMonthShape is a deliberately non-Gregorian shape: 2 months of 10 days,
// 1 weekday cycle of 5, no leap years.
func twoMonthShape() *model.CalendarShape {
	return &model.CalendarShape{
		Name: "Two Seasons of Ten",
		Months: []model.Month{
			{ID: "frost", Name: "Frost", Days: 10},
			{ID: "thaw", Name: "Thaw", Days: 10},
		},
		Weekdays: []model.Weekday{
			{ID: "d1", Name: "Firstday"},
			{ID: "d2", Name: "Seconday"},
			{ID: "d3", Name: "Thirday"},
			{ID: "d4", Name: "Fourthday"},
			{ID: "d5", Name: "Fifthday"},
		},
		TimeUnits: model.TimeUnits{HoursPerDay: 24, MinutesPerHour: 60, SecondsPerMinute: 60},
		Year:      model.YearConfig{StartingYear: 1},
	}
}

func TestIsLeapYear_Gregorian(t *testing.T) {
	shape := model.Gregorian()

	tests := []struct {
		year int
		want bool
	}{
		{2000, true},
		{1600, true},
		{1900, false},
		{2100, false},
		{2024, true},
		{2023, false},
		{0, true},    // divisible by 400
		{-4, true},   // negative years follow the same rule
		{-100, false},
	}

	for _, tt := range tests {
		if got := IsLeapYear(tt.year, shape); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestIsLeapYear_Simple(t *testing.T) {
	shape := twoMonthShape()
	shape.LeapYear = model.LeapYear{Enabled: true, Rule: model.LeapRuleSimple, Interval: 4}

	tests := []struct {
		year int
		want bool
	}{
		{4, true},
		{8, true},
		{5, false},
		{0, true},
		{-4, true}, // mathematical modulo, not truncating
		{-3, false},
	}

	for _, tt := range tests {
		if got := IsLeapYear(tt.year, shape); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestIsLeapYear_Disabled(t *testing.T) {
	shape := twoMonthShape()
	for _, year := range []int{0, 4, 400, 2024} {
		if IsLeapYear(year, shape) {
			t.Errorf("IsLeapYear(%d) = true with rule disabled", year)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	shape := model.Gregorian()

	tests := []struct {
		name  string
		year  int
		month int
		want  int
	}{
		{"february in a leap year", 2024, 1, 29},
		{"february in a common year", 2023, 1, 28},
		{"january is unaffected by leap", 2024, 0, 31},
		{"index below range", 2024, -1, 0},
		{"index above range", 2024, 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month, shape); got != tt.want {
				t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestDaysInYear(t *testing.T) {
	shape := model.Gregorian()
	if got := DaysInYear(2024, shape); got != 366 {
		t.Errorf("DaysInYear(2024) = %d, want 366", got)
	}
	if got := DaysInYear(2023, shape); got != 365 {
		t.Errorf("DaysInYear(2023) = %d, want 365", got)
	}

	if got := DaysInYear(7, twoMonthShape()); got != 20 {
		t.Errorf("DaysInYear(custom) = %d, want 20", got)
	}
}

func TestToLinearTime_EpochAnchor(t *testing.T) {
	for _, shape := range []*model.CalendarShape{model.Gregorian(), twoMonthShape()} {
		anchor := model.DateTime{Year: shape.Year.StartingYear, Month: 0, Day: 1}
		if got := ToLinearTime(anchor, shape); got != 0 {
			t.Errorf("shape %q: ToLinearTime(anchor) = %g, want 0", shape.Name, got)
		}
	}
}

func TestToLinearTime_CustomShape(t *testing.T) {
	shape := twoMonthShape()

	// Last day of year 1 is 19 whole days past the anchor.
	last := model.DateTime{Year: 1, Month: 1, Day: 10}
	want := 19 * 86400.0
	if got := ToLinearTime(last, shape); got != want {
		t.Errorf("ToLinearTime(last day of year 1) = %g, want %g", got, want)
	}

	// First day of year 2 is exactly one year of 20 days out.
	first := model.DateTime{Year: 2, Month: 0, Day: 1}
	if got := ToLinearTime(first, shape); got != 20*86400.0 {
		t.Errorf("ToLinearTime(year 2 day 1) = %g, want %g", got, 20*86400.0)
	}
}

func TestFromLinearTime_NegativeInput(t *testing.T) {
	shape := model.Gregorian()

	// One hour before the epoch anchor: the last day of the year preceding
	// startingYear, at 23:00:00. Year 0 is divisible by 400 and hence leap.
	got := FromLinearTime(-3600, shape)
	want := model.DateTime{Year: 0, Month: 11, Day: 31, Hour: 23}
	if got != want {
		t.Errorf("FromLinearTime(-3600) = %+v, want %+v", got, want)
	}

	// One full day before the anchor at midnight.
	got = FromLinearTime(-86400, shape)
	want = model.DateTime{Year: 0, Month: 11, Day: 31}
	if got != want {
		t.Errorf("FromLinearTime(-86400) = %+v, want %+v", got, want)
	}

	// One second before the anchor.
	got = FromLinearTime(-1, shape)
	want = model.DateTime{Year: 0, Month: 11, Day: 31, Hour: 23, Minute: 59, Second: 59}
	if got != want {
		t.Errorf("FromLinearTime(-1) = %+v, want %+v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	gregorian := model.Gregorian()
	custom := twoMonthShape()

	tests := []struct {
		name  string
		shape *model.CalendarShape
		dt    model.DateTime
	}{
		{"anchor", gregorian, model.DateTime{Year: 1, Month: 0, Day: 1}},
		{"leap day 2024", gregorian, model.DateTime{Year: 2024, Month: 1, Day: 29, Hour: 12, Minute: 30, Second: 15}},
		{"end of year", gregorian, model.DateTime{Year: 1999, Month: 11, Day: 31, Hour: 23, Minute: 59, Second: 59}},
		{"pre-epoch", gregorian, model.DateTime{Year: -5, Month: 6, Day: 14, Hour: 3}},
		{"century non-leap", gregorian, model.DateTime{Year: 1900, Month: 1, Day: 28}},
		{"custom mid-year", custom, model.DateTime{Year: 3, Month: 1, Day: 7, Hour: 1, Minute: 2, Second: 3}},
		{"custom pre-epoch", custom, model.DateTime{Year: -2, Month: 0, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linear := ToLinearTime(tt.dt, tt.shape)
			back := FromLinearTime(linear, tt.shape)
			if back != tt.dt {
				t.Errorf("round trip: %+v -> %g -> %+v", tt.dt, linear, back)
			}
		})
	}
}

func TestToLinearTime_Monotonic(t *testing.T) {
	shape := model.Gregorian()

	// Strictly increasing civil dates must map to strictly increasing linear
	// times, across leap years and pre-epoch territory.
	dates := []model.DateTime{
		{Year: -1, Month: 11, Day: 31},
		{Year: 1, Month: 0, Day: 1},
		{Year: 1, Month: 0, Day: 1, Second: 1},
		{Year: 1899, Month: 11, Day: 31},
		{Year: 1900, Month: 1, Day: 28},
		{Year: 1900, Month: 2, Day: 1},
		{Year: 2024, Month: 1, Day: 28},
		{Year: 2024, Month: 1, Day: 29},
		{Year: 2024, Month: 2, Day: 1},
		{Year: 2024, Month: 2, Day: 1, Hour: 1},
	}

	prev := ToLinearTime(dates[0], shape)
	for _, d := range dates[1:] {
		cur := ToLinearTime(d, shape)
		if cur <= prev {
			t.Errorf("ToLinearTime(%+v) = %g, not greater than previous %g", d, cur, prev)
		}
		prev = cur
	}
}

func TestWeekday(t *testing.T) {
	shape := model.Gregorian()

	// The anchor is weekday 0 by definition, and the cycle repeats every
	// seven days.
	if got := Weekday(1, 0, 1, shape, 0); got != 0 {
		t.Errorf("Weekday(anchor) = %d, want 0", got)
	}
	if got := Weekday(1, 0, 8, shape, 0); got != 0 {
		t.Errorf("Weekday(anchor+7d) = %d, want 0", got)
	}
	if got := Weekday(1, 0, 2, shape, 0); got != 1 {
		t.Errorf("Weekday(anchor+1d) = %d, want 1", got)
	}

	// One day before the anchor wraps to the end of the cycle.
	if got := Weekday(0, 11, 31, shape, 0); got != 6 {
		t.Errorf("Weekday(anchor-1d) = %d, want 6", got)
	}

	// The offset shifts the shown weekday.
	if got := Weekday(1, 0, 1, shape, 3); got != 3 {
		t.Errorf("Weekday(anchor, offset 3) = %d, want 3", got)
	}
	if got := Weekday(1, 0, 1, shape, -1); got != 6 {
		t.Errorf("Weekday(anchor, offset -1) = %d, want 6", got)
	}
}

func TestWeekday_IgnoresFirstWeekday(t *testing.T) {
	base := model.Gregorian()
	rotated := model.Gregorian()
	rotated.Year.FirstWeekday = 3

	dates := []model.DateTime{
		{Year: 1, Month: 0, Day: 1},
		{Year: 2024, Month: 1, Day: 29},
		{Year: -10, Month: 5, Day: 3},
	}
	for _, d := range dates {
		got := Weekday(d.Year, d.Month, d.Day, rotated, 0)
		want := Weekday(d.Year, d.Month, d.Day, base, 0)
		if got != want {
			t.Errorf("Weekday(%+v) changed with firstWeekday: got %d, want %d", d, got, want)
		}
	}
}

func TestDayDistance(t *testing.T) {
	shape := model.Gregorian()

	a := model.DateTime{Year: 2024, Month: 1, Day: 28}
	b := model.DateTime{Year: 2024, Month: 2, Day: 1}
	if got := DayDistance(a, b, shape); got != 2 {
		t.Errorf("DayDistance(Feb 28, Mar 1) in a leap year = %d, want 2", got)
	}
	if got := DayDistance(b, a, shape); got != -2 {
		t.Errorf("DayDistance reversed = %d, want -2", got)
	}

	// Time-of-day must not affect the whole-day distance.
	a.Hour, b.Hour = 23, 1
	if got := DayDistance(a, b, shape); got != 2 {
		t.Errorf("DayDistance with times = %d, want 2", got)
	}
}
