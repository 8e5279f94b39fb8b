package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Validate checks all shape invariants. It returns a joined error listing
// every violation so a configuration editor can surface them all at once.
//
// A shape that fails validation must never be installed as the active shape;
// the previously active shape stays in effect.
func (s *CalendarShape) Validate() error {
	var errs []error

	if len(s.Months) == 0 {
		errs = append(errs, errors.New("months must not be empty"))
	}
	for i, m := range s.Months {
		if m.Days <= 0 {
			errs = append(errs, fmt.Errorf("month %d (%q): days must be positive, got %d", i, m.Name, m.Days))
		}
	}

	if len(s.Weekdays) == 0 {
		errs = append(errs, errors.New("weekdays must not be empty"))
	}

	if s.TimeUnits.HoursPerDay <= 0 {
		errs = append(errs, fmt.Errorf("hoursPerDay must be positive, got %d", s.TimeUnits.HoursPerDay))
	}
	if s.TimeUnits.MinutesPerHour <= 0 {
		errs = append(errs, fmt.Errorf("minutesPerHour must be positive, got %d", s.TimeUnits.MinutesPerHour))
	}
	if s.TimeUnits.SecondsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("secondsPerMinute must be positive, got %d", s.TimeUnits.SecondsPerMinute))
	}

	if s.LeapYear.Enabled {
		switch s.LeapYear.Rule {
		case LeapRuleGregorian:
			// Valid
		case LeapRuleSimple:
			if s.LeapYear.Interval <= 0 {
				errs = append(errs, fmt.Errorf("leap interval must be positive for the simple rule, got %d", s.LeapYear.Interval))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown leap rule %q", s.LeapYear.Rule))
		}
		for _, lm := range s.LeapYear.Months {
			idx := s.MonthIndex(lm.MonthID)
			if idx < 0 {
				errs = append(errs, fmt.Errorf("leap month references unknown month id %q", lm.MonthID))
				continue
			}
			// A negative delta may not shrink a month to zero or below.
			if s.Months[idx].Days+lm.ExtraDays <= 0 {
				errs = append(errs, fmt.Errorf("leap delta %d leaves month %q with no days", lm.ExtraDays, s.Months[idx].Name))
			}
		}
	}

	for _, se := range s.Seasons {
		if se.StartingMonth < 0 || se.StartingMonth >= len(s.Months) {
			errs = append(errs, fmt.Errorf("season %q: starting month %d out of range", se.Name, se.StartingMonth))
		}
		if se.StartingDay < 1 {
			errs = append(errs, fmt.Errorf("season %q: starting day %d must be at least 1", se.Name, se.StartingDay))
		}
	}

	for _, m := range s.Moons {
		if m.CycleLength <= 0 {
			errs = append(errs, fmt.Errorf("moon %q: cycle length must be positive, got %g", m.Name, m.CycleLength))
		}
		for _, p := range m.Phases {
			if p.Length < 0 {
				errs = append(errs, fmt.Errorf("moon %q: phase %q has negative length", m.Name, p.Name))
			}
		}
	}

	if s.Year.FirstWeekday < 0 || (len(s.Weekdays) > 0 && s.Year.FirstWeekday >= len(s.Weekdays)) {
		errs = append(errs, fmt.Errorf("firstWeekday %d out of range", s.Year.FirstWeekday))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureIDs fills in generated UUIDs for any entity missing an id. Imported
// documents frequently omit ids; the engine relies on them for leap-month
// lookups and stable references from presentation layers.
func (s *CalendarShape) EnsureIDs() {
	for i := range s.Months {
		if s.Months[i].ID == "" {
			s.Months[i].ID = uuid.NewString()
		}
	}
	for i := range s.Weekdays {
		if s.Weekdays[i].ID == "" {
			s.Weekdays[i].ID = uuid.NewString()
		}
	}
	for i := range s.Seasons {
		if s.Seasons[i].ID == "" {
			s.Seasons[i].ID = uuid.NewString()
		}
	}
	for i := range s.Moons {
		if s.Moons[i].ID == "" {
			s.Moons[i].ID = uuid.NewString()
		}
	}
}

// StartingState returns the initial tracked state for a freshly installed
// shape: the epoch anchor date at midnight with sync disabled.
func (s *CalendarShape) StartingState() CalendarState {
	return CalendarState{
		DateTime: DateTime{
			Year:  s.Year.StartingYear,
			Month: 0,
			Day:   1,
		},
	}
}
