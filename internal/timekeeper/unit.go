package timekeeper

import "fmt"

// Unit is a time unit an Advance operation can move the calendar by.
type Unit string

const (
	UnitSecond Unit = "second"
	UnitMinute Unit = "minute"
	UnitHour   Unit = "hour"
	UnitDay    Unit = "day"
	UnitWeek   Unit = "week"
	UnitMonth  Unit = "month"
	UnitYear   Unit = "year"
)

// ParseUnit converts a user-supplied unit string. Plural forms are accepted.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "second", "seconds":
		return UnitSecond, nil
	case "minute", "minutes":
		return UnitMinute, nil
	case "hour", "hours":
		return UnitHour, nil
	case "day", "days":
		return UnitDay, nil
	case "week", "weeks":
		return UnitWeek, nil
	case "month", "months":
		return UnitMonth, nil
	case "year", "years":
		return UnitYear, nil
	default:
		return "", fmt.Errorf("unknown time unit %q", s)
	}
}
