// Package engine implements pure calendar arithmetic over a CalendarShape.
//
// Every function here is stateless and re-entrant: results depend only on the
// arguments. Month and year lengths are data-driven, so date↔linear-time
// conversion walks years and months rather than using a closed form. That
// makes conversion O(distance from the epoch anchor), which is the price of
// correctness for arbitrary user-supplied calendar shapes.
//
// Conventions: month is a 0-based index, day is 1-based, and the epoch anchor
// (startingYear, month 0, day 1, 00:00:00) is linear time zero by definition.
package engine

import (
	"math"

	"github.com/worldsmith/almanac/internal/model"
)

// floorDiv returns the floor of a/b for positive b. Unlike Go's truncating
// division, the result rounds toward negative infinity, so the matching
// remainder (a - floorDiv(a,b)*b) is always in [0, b).
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// mod returns the mathematical (non-negative) remainder of a modulo b, b > 0.
func mod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

// fmod returns the non-negative real remainder of a modulo b, b > 0.
func fmod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r < 0 {
		r += b
	}
	return r
}

// IsLeapYear reports whether year is a leap year under the shape's rule.
// Evaluated per-year, never cached: callers query arbitrary year ranges,
// including negative years.
func IsLeapYear(year int, shape *model.CalendarShape) bool {
	if !shape.LeapYear.Enabled {
		return false
	}
	switch shape.LeapYear.Rule {
	case model.LeapRuleGregorian:
		return year%400 == 0 || (year%4 == 0 && year%100 != 0)
	case model.LeapRuleSimple:
		if shape.LeapYear.Interval <= 0 {
			return false
		}
		return mod(int64(year), int64(shape.LeapYear.Interval)) == 0
	default:
		return false
	}
}

// DaysInMonth returns the length of the month at the given index in the given
// year, including any leap delta. Returns 0 for an out-of-range index;
// callers should not rely on this beyond defensive termination.
func DaysInMonth(year, month int, shape *model.CalendarShape) int {
	if month < 0 || month >= len(shape.Months) {
		return 0
	}
	days := shape.Months[month].Days
	if IsLeapYear(year, shape) {
		days += shape.LeapDelta(shape.Months[month].ID)
	}
	return days
}

// DaysInYear returns the total number of days in the given year.
func DaysInYear(year int, shape *model.CalendarShape) int {
	total := 0
	for m := range shape.Months {
		total += DaysInMonth(year, m, shape)
	}
	return total
}

// daysFromEpoch counts whole days from the epoch anchor to the given civil
// date. Negative for dates before the anchor.
func daysFromEpoch(year, month, day int, shape *model.CalendarShape) int64 {
	start := shape.Year.StartingYear

	var total int64
	if year >= start {
		for y := start; y < year; y++ {
			total += int64(DaysInYear(y, shape))
		}
	} else {
		for y := year; y < start; y++ {
			total -= int64(DaysInYear(y, shape))
		}
	}

	for m := 0; m < month && m < len(shape.Months); m++ {
		total += int64(DaysInMonth(year, m, shape))
	}

	return total + int64(day-1)
}

// DayDistance returns the number of whole days from a to b, independent of
// time-of-day. Negative when b is earlier than a.
func DayDistance(a, b model.DateTime, shape *model.CalendarShape) int64 {
	return daysFromEpoch(b.Year, b.Month, b.Day, shape) -
		daysFromEpoch(a.Year, a.Month, a.Day, shape)
}

// ToLinearTime converts a civil date/time to seconds on the linear timeline.
// The epoch anchor maps to exactly zero.
func ToLinearTime(dt model.DateTime, shape *model.CalendarShape) float64 {
	days := daysFromEpoch(dt.Year, dt.Month, dt.Day, shape)
	seconds := days*shape.SecondsPerDay() +
		int64(dt.Hour)*shape.SecondsPerHour() +
		int64(dt.Minute)*int64(shape.TimeUnits.SecondsPerMinute) +
		int64(dt.Second)
	return float64(seconds)
}

// FromLinearTime converts seconds on the linear timeline back to a civil
// date/time. The inverse of ToLinearTime for all normalized dates.
//
// Remainder extraction is floor-based, not truncating: for any pre-epoch
// moment the within-day seconds must still come out as a non-negative value
// less than one day. Truncating division would yield a negative time-of-day
// for every negative input.
func FromLinearTime(seconds float64, shape *model.CalendarShape) model.DateTime {
	spd := shape.SecondsPerDay()
	total := int64(math.Floor(seconds))

	days := floorDiv(total, spd)
	rem := total - days*spd

	sph := shape.SecondsPerHour()
	spm := int64(shape.TimeUnits.SecondsPerMinute)

	dt := model.DateTime{
		Hour:   int(rem / sph),
		Minute: int((rem % sph) / spm),
		Second: int(rem % spm),
	}

	year := shape.Year.StartingYear
	if days >= 0 {
		for {
			dy := int64(DaysInYear(year, shape))
			if dy <= 0 || days < dy {
				break
			}
			days -= dy
			year++
		}
	} else {
		for days < 0 {
			year--
			dy := int64(DaysInYear(year, shape))
			if dy <= 0 {
				days = 0
				break
			}
			days += dy
		}
	}
	dt.Year = year

	month := 0
	for month < len(shape.Months)-1 {
		dm := int64(DaysInMonth(year, month, shape))
		if days < dm {
			break
		}
		days -= dm
		month++
	}
	dt.Month = month

	// Clamp to the last valid day if the walk exhausted all months without
	// resolving. Only reachable for malformed shapes.
	if dim := int64(DaysInMonth(year, month, shape)); days >= dim && dim > 0 {
		days = dim - 1
	}
	dt.Day = int(days) + 1

	return dt
}

// Weekday returns the weekday index of a civil date in [0, len(weekdays)).
//
// The cycle is absolute, anchored at the epoch: the anchor date is weekday 0
// plus offset. The shape's firstWeekday display rotation never enters this
// computation; offset exists solely so a display-alignment setting can shift
// the shown weekday without altering the underlying date.
func Weekday(year, month, day int, shape *model.CalendarShape, offset int) int {
	n := int64(len(shape.Weekdays))
	if n == 0 {
		return 0
	}
	total := daysFromEpoch(year, month, day, shape)
	return int(mod(total+int64(offset), n))
}
