package engine

import "github.com/worldsmith/almanac/internal/model"

// Normalize carries overflow and underflow from the smallest unit upward:
// seconds → minutes → hours → days → months → years, each step using the
// shape's configured moduli. The result has every field in range and a day
// valid for its (year, month) under that year's leap status.
//
// Day carry is the delicate step. Month lengths depend on the current year
// and its leap status, so the forward walk re-reads DaysInMonth after every
// month increment, and the backward walk looks up the previous month's length
// under whichever year that month lands in. Crossing a year boundary backward
// changes which year's leap status applies to the final month.
func Normalize(dt model.DateTime, shape *model.CalendarShape) model.DateTime {
	spm := int64(shape.TimeUnits.SecondsPerMinute)
	mph := int64(shape.TimeUnits.MinutesPerHour)
	hpd := int64(shape.TimeUnits.HoursPerDay)

	sec := int64(dt.Second)
	carry := floorDiv(sec, spm)
	sec -= carry * spm

	min := int64(dt.Minute) + carry
	carry = floorDiv(min, mph)
	min -= carry * mph

	hour := int64(dt.Hour) + carry
	carry = floorDiv(hour, hpd)
	hour -= carry * hpd

	day := int64(dt.Day) + carry

	// Month carry is a plain modulus: the month count does not vary by year.
	months := int64(len(shape.Months))
	year := int64(dt.Year) + floorDiv(int64(dt.Month), months)
	month := mod(int64(dt.Month), months)

	// Day underflow: borrow from the preceding month, whose length depends on
	// the year it falls in.
	for day < 1 {
		month--
		if month < 0 {
			month = months - 1
			year--
		}
		dim := int64(DaysInMonth(int(year), int(month), shape))
		if dim <= 0 {
			break
		}
		day += dim
	}

	// Day overflow: re-read the month length after every step, since entering
	// a leap-affected month (or a new year) changes the carry amount.
	for {
		dim := int64(DaysInMonth(int(year), int(month), shape))
		if dim <= 0 || day <= dim {
			break
		}
		day -= dim
		month++
		if month >= months {
			month = 0
			year++
		}
	}

	return model.DateTime{
		Year:   int(year),
		Month:  int(month),
		Day:    int(day),
		Hour:   int(hour),
		Minute: int(min),
		Second: int(sec),
	}
}
