// Package model defines the calendar shape and tracked date/time state.
//
// A CalendarShape is the complete, immutable-per-edit description of a
// calendar: its months, weekdays, time-unit granularity, year numbering,
// leap-year rule, seasons, and moons. Shapes are replaced wholesale on every
// configuration save; nothing in the engine mutates a shape in place.
package model

// Month is a single month definition. Order within CalendarShape.Months is
// semantically significant: it defines the month index 0..N-1.
type Month struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Days         int    `json:"days" yaml:"days"` // base length, before any leap delta
}

// Weekday is a single weekday definition. Order within CalendarShape.Weekdays
// defines the absolute weekday cycle used by all arithmetic.
type Weekday struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
}

// TimeUnits configures the sub-day granularity of the calendar.
type TimeUnits struct {
	HoursPerDay      int `json:"hoursPerDay" yaml:"hoursPerDay"`
	MinutesPerHour   int `json:"minutesPerHour" yaml:"minutesPerHour"`
	SecondsPerMinute int `json:"secondsPerMinute" yaml:"secondsPerMinute"`
}

// YearConfig controls year numbering and display.
//
// StartingYear is the epoch anchor: the civil date
// (StartingYear, month 0, day 1, 00:00:00) corresponds to linear time zero.
// FirstWeekday is a pure display rotation of the weekday columns and must
// never influence any arithmetic result.
type YearConfig struct {
	StartingYear   int    `json:"startingYear" yaml:"startingYear"`
	YearZeroExists bool   `json:"yearZeroExists" yaml:"yearZeroExists"`
	Prefix         string `json:"yearPrefix,omitempty" yaml:"yearPrefix,omitempty"`
	Suffix         string `json:"yearSuffix,omitempty" yaml:"yearSuffix,omitempty"`
	FirstWeekday   int    `json:"firstWeekday,omitempty" yaml:"firstWeekday,omitempty"`
}

// LeapRule identifies the leap-year predicate.
type LeapRule string

const (
	// LeapRuleGregorian marks years divisible by 4 but not 100, plus years
	// divisible by 400.
	LeapRuleGregorian LeapRule = "gregorian"
	// LeapRuleSimple marks every Nth year, N = LeapYear.Interval.
	LeapRuleSimple LeapRule = "simple"
)

// LeapMonth assigns extra days to a month in leap years.
type LeapMonth struct {
	MonthID   string `json:"monthId" yaml:"monthId"`
	ExtraDays int    `json:"extraDays" yaml:"extraDays"`
}

// LeapYear configures the leap-year rule for a shape.
type LeapYear struct {
	Enabled  bool        `json:"enabled" yaml:"enabled"`
	Rule     LeapRule    `json:"rule,omitempty" yaml:"rule,omitempty"`
	Interval int         `json:"interval,omitempty" yaml:"interval,omitempty"` // for LeapRuleSimple
	Months   []LeapMonth `json:"months,omitempty" yaml:"months,omitempty"`
}

// Season marks a point in the year where a season begins. Seasons need not
// partition the year contiguously; resolution uses a "last season whose start
// has passed" rule.
type Season struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	StartingMonth int    `json:"startingMonth" yaml:"startingMonth"` // month index, 0-based
	StartingDay   int    `json:"startingDay" yaml:"startingDay"`   // day of month, 1-based
	Color         string `json:"color,omitempty" yaml:"color,omitempty"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"`
	SunriseTime   int    `json:"sunriseTime,omitempty" yaml:"sunriseTime,omitempty"` // seconds after midnight
	SunsetTime    int    `json:"sunsetTime,omitempty" yaml:"sunsetTime,omitempty"`  // seconds after midnight
}

// MoonPhase is a named span within a moon's cycle, measured in days.
// Lengths may be fractional.
type MoonPhase struct {
	Name   string  `json:"name" yaml:"name"`
	Length float64 `json:"length" yaml:"length"`
	Icon   string  `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// ReferenceDate is a bare civil date used to anchor a moon's cycle.
type ReferenceDate struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month" yaml:"month"` // month index, 0-based
	Day   int `json:"day" yaml:"day"`   // 1-based
}

// Moon describes a moon and its phase cycle. The sum of phase lengths should
// equal CycleLength but this is not enforced; resolution degrades gracefully
// by assigning trailing cycle positions to the last phase.
type Moon struct {
	ID               string        `json:"id" yaml:"id"`
	Name             string        `json:"name" yaml:"name"`
	Color            string        `json:"color,omitempty" yaml:"color,omitempty"`
	CycleLength      float64       `json:"cycleLength" yaml:"cycleLength"` // days, may be fractional
	Phases           []MoonPhase   `json:"phases" yaml:"phases"`
	ReferenceNewMoon ReferenceDate `json:"referenceNewMoon" yaml:"referenceNewMoon"`
}

// CalendarShape is the full calendar configuration.
type CalendarShape struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Months    []Month    `json:"months" yaml:"months"`
	Weekdays  []Weekday  `json:"weekdays" yaml:"weekdays"`
	TimeUnits TimeUnits  `json:"timeUnits" yaml:"timeUnits"`
	Year      YearConfig `json:"yearConfig" yaml:"yearConfig"`
	LeapYear  LeapYear   `json:"leapYear" yaml:"leapYear"`
	Seasons   []Season   `json:"seasons,omitempty" yaml:"seasons,omitempty"`
	Moons     []Moon     `json:"moons,omitempty" yaml:"moons,omitempty"`
}

// SecondsPerHour returns the number of seconds in one hour.
func (s *CalendarShape) SecondsPerHour() int64 {
	return int64(s.TimeUnits.SecondsPerMinute) * int64(s.TimeUnits.MinutesPerHour)
}

// SecondsPerDay returns the number of seconds in one day.
func (s *CalendarShape) SecondsPerDay() int64 {
	return s.SecondsPerHour() * int64(s.TimeUnits.HoursPerDay)
}

// MonthIndex returns the index of the month with the given id, or -1.
func (s *CalendarShape) MonthIndex(id string) int {
	for i, m := range s.Months {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// LeapDelta returns the configured extra leap days for a month id, or 0.
func (s *CalendarShape) LeapDelta(monthID string) int {
	for _, lm := range s.LeapYear.Months {
		if lm.MonthID == monthID {
			return lm.ExtraDays
		}
	}
	return 0
}

// DateTime is a civil date and time under some CalendarShape.
// Month is a 0-based index; Day is 1-based.
type DateTime struct {
	Year   int `json:"year" yaml:"year"`
	Month  int `json:"month" yaml:"month"`
	Day    int `json:"day" yaml:"day"`
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
	Second int `json:"second" yaml:"second"`
}

// Date returns the date portion with the time set to midnight.
func (dt DateTime) Date() DateTime {
	return DateTime{Year: dt.Year, Month: dt.Month, Day: dt.Day}
}

// Compare orders two date/times lexicographically by
// (year, month, day, hour, minute, second). Returns -1, 0, or +1.
func (dt DateTime) Compare(other DateTime) int {
	a := [6]int{dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second}
	b := [6]int{other.Year, other.Month, other.Day, other.Hour, other.Minute, other.Second}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

// CalendarState is the tracked calendar position plus synchronization
// bookkeeping. Weekday is derived: it is recomputed on every write and is
// never an independent source of truth.
type CalendarState struct {
	DateTime DateTime `json:"dateTime" yaml:"dateTime"`
	Weekday  int      `json:"weekday" yaml:"weekday"`

	// SyncEnabled controls the bidirectional link to the external clock.
	SyncEnabled bool `json:"syncEnabled" yaml:"syncEnabled"`
	// LastSyncedExternalTime is the external clock's value as of the last
	// completed sync exchange. Nil until the first exchange after enabling.
	LastSyncedExternalTime *float64 `json:"lastSyncedExternalTime,omitempty" yaml:"lastSyncedExternalTime,omitempty"`
}
