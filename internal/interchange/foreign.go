package interchange

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/worldsmith/almanac/internal/model"
)

// The foreign schema carried under a top-level "calendars" array. Month and
// day fields are 0-indexed; months carry two day counts (normal and leap
// year) instead of a base length plus a leap delta; the time of day is a
// single seconds-since-midnight counter.

type foreignExport struct {
	Calendars []foreignCalendar `json:"calendars"`
}

type foreignCalendar struct {
	Name        string             `json:"name"`
	CurrentDate foreignCurrentDate `json:"currentDate"`
	LeapYear    foreignLeapYear    `json:"leapYear"`
	Months      []foreignMonth     `json:"months"`
	Moons       []foreignMoon      `json:"moons"`
	Seasons     []foreignSeason    `json:"seasons"`
	Time        foreignTime        `json:"time"`
	Weekdays    []foreignWeekday   `json:"weekdays"`
	Year        foreignYear        `json:"year"`
}

type foreignCurrentDate struct {
	Year    int `json:"year"`
	Month   int `json:"month"`   // 0-indexed
	Day     int `json:"day"`     // 0-indexed
	Seconds int `json:"seconds"` // since midnight
}

type foreignLeapYear struct {
	Rule      string `json:"rule"` // "none", "gregorian", "custom"
	CustomMod int    `json:"customMod"`
}

type foreignMonth struct {
	Name                 string `json:"name"`
	Abbreviation         string `json:"abbreviation"`
	NumberOfDays         int    `json:"numberOfDays"`
	NumberOfLeapYearDays int    `json:"numberOfLeapYearDays"`
}

type foreignWeekday struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type foreignSeason struct {
	Name          string `json:"name"`
	StartingMonth int    `json:"startingMonth"` // 0-indexed
	StartingDay   int    `json:"startingDay"`   // 0-indexed
	Color         string `json:"color"`
	Icon          string `json:"icon"`
	SunriseTime   int    `json:"sunriseTime"`
	SunsetTime    int    `json:"sunsetTime"`
}

type foreignMoon struct {
	Name         string             `json:"name"`
	CycleLength  float64            `json:"cycleLength"`
	Color        string             `json:"color"`
	FirstNewMoon foreignNewMoon     `json:"firstNewMoon"`
	Phases       []foreignMoonPhase `json:"phases"`
}

type foreignNewMoon struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 0-indexed
	Day   int `json:"day"`   // 0-indexed
}

type foreignMoonPhase struct {
	Name   string  `json:"name"`
	Length float64 `json:"length"`
	Icon   string  `json:"icon"`
}

type foreignTime struct {
	HoursInDay      int `json:"hoursInDay"`
	MinutesInHour   int `json:"minutesInHour"`
	SecondsInMinute int `json:"secondsInMinute"`
}

type foreignYear struct {
	NumericRepresentation int    `json:"numericRepresentation"`
	Prefix                string `json:"prefix"`
	Postfix               string `json:"postfix"`
	FirstWeekday          int    `json:"firstWeekday"`
}

// importForeign translates the first calendar of a foreign export.
func importForeign(data []byte) (*Result, error) {
	var export foreignExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parse foreign document: %w", err)
	}
	if len(export.Calendars) == 0 {
		return nil, fmt.Errorf("foreign document has an empty calendars array")
	}
	return translateForeign(export.Calendars[0])
}

func translateForeign(cal foreignCalendar) (*Result, error) {
	shape := &model.CalendarShape{
		Name: strings.TrimSpace(cal.Name),
		TimeUnits: model.TimeUnits{
			HoursPerDay:      cal.Time.HoursInDay,
			MinutesPerHour:   cal.Time.MinutesInHour,
			SecondsPerMinute: cal.Time.SecondsInMinute,
		},
		Year: model.YearConfig{
			StartingYear: cal.Year.NumericRepresentation,
			Prefix:       strings.TrimSpace(cal.Year.Prefix),
			Suffix:       strings.TrimSpace(cal.Year.Postfix),
			FirstWeekday: cal.Year.FirstWeekday,
		},
	}
	if shape.Name == "" {
		shape.Name = "Imported Calendar"
	}

	// Absent time units fall back to 24/60/60.
	if shape.TimeUnits.HoursPerDay <= 0 {
		shape.TimeUnits.HoursPerDay = 24
	}
	if shape.TimeUnits.MinutesPerHour <= 0 {
		shape.TimeUnits.MinutesPerHour = 60
	}
	if shape.TimeUnits.SecondsPerMinute <= 0 {
		shape.TimeUnits.SecondsPerMinute = 60
	}

	// Months carry two day counts; the configured representation is a base
	// length plus a per-leap-year delta, so the difference is computed once
	// here at translation time.
	var leapMonths []model.LeapMonth
	for _, m := range cal.Months {
		id := uuid.NewString()
		shape.Months = append(shape.Months, model.Month{
			ID:           id,
			Name:         strings.TrimSpace(m.Name),
			Abbreviation: strings.TrimSpace(m.Abbreviation),
			Days:         m.NumberOfDays,
		})
		if m.NumberOfLeapYearDays > m.NumberOfDays {
			leapMonths = append(leapMonths, model.LeapMonth{
				MonthID:   id,
				ExtraDays: m.NumberOfLeapYearDays - m.NumberOfDays,
			})
		}
	}

	switch cal.LeapYear.Rule {
	case "", "none":
		// No leap rule; any leap day counts in the months are inert.
	case "gregorian":
		shape.LeapYear = model.LeapYear{
			Enabled: true,
			Rule:    model.LeapRuleGregorian,
			Months:  leapMonths,
		}
	case "custom":
		if cal.LeapYear.CustomMod <= 0 {
			return nil, fmt.Errorf("foreign leap rule %q requires a positive customMod, got %d", cal.LeapYear.Rule, cal.LeapYear.CustomMod)
		}
		shape.LeapYear = model.LeapYear{
			Enabled:  true,
			Rule:     model.LeapRuleSimple,
			Interval: cal.LeapYear.CustomMod,
			Months:   leapMonths,
		}
	default:
		return nil, fmt.Errorf("unknown foreign leap rule %q", cal.LeapYear.Rule)
	}

	for _, w := range cal.Weekdays {
		shape.Weekdays = append(shape.Weekdays, model.Weekday{
			Name:         strings.TrimSpace(w.Name),
			Abbreviation: strings.TrimSpace(w.Abbreviation),
		})
	}

	// Foreign days are 0-indexed; the engine's are 1-based.
	for _, s := range cal.Seasons {
		shape.Seasons = append(shape.Seasons, model.Season{
			Name:          strings.TrimSpace(s.Name),
			StartingMonth: s.StartingMonth,
			StartingDay:   s.StartingDay + 1,
			Color:         s.Color,
			Icon:          s.Icon,
			SunriseTime:   s.SunriseTime,
			SunsetTime:    s.SunsetTime,
		})
	}

	for _, m := range cal.Moons {
		moon := model.Moon{
			Name:        strings.TrimSpace(m.Name),
			Color:       m.Color,
			CycleLength: m.CycleLength,
			ReferenceNewMoon: model.ReferenceDate{
				Year:  m.FirstNewMoon.Year,
				Month: m.FirstNewMoon.Month,
				Day:   m.FirstNewMoon.Day + 1,
			},
		}
		for _, p := range m.Phases {
			moon.Phases = append(moon.Phases, model.MoonPhase{
				Name:   strings.TrimSpace(p.Name),
				Length: p.Length,
				Icon:   p.Icon,
			})
		}
		if len(moon.Phases) == 0 {
			moon.Phases = defaultPhases(m.CycleLength)
		}
		shape.Moons = append(shape.Moons, moon)
	}

	res := &Result{Shape: shape}
	if cal.CurrentDate != (foreignCurrentDate{}) {
		res.State = foreignStateToDateTime(cal.CurrentDate, shape)
	}
	return res, nil
}

// foreignStateToDateTime converts a foreign current-date record, splitting
// its seconds-since-midnight counter using the translated time units.
func foreignStateToDateTime(cd foreignCurrentDate, shape *model.CalendarShape) *model.DateTime {
	spm := shape.TimeUnits.SecondsPerMinute
	mph := shape.TimeUnits.MinutesPerHour
	secs := cd.Seconds
	if secs < 0 {
		secs = 0
	}
	return &model.DateTime{
		Year:   cd.Year,
		Month:  cd.Month,
		Day:    cd.Day + 1,
		Hour:   secs / (spm * mph),
		Minute: (secs / spm) % mph,
		Second: secs % spm,
	}
}

// defaultPhases splits a cycle into the conventional eight phases: four
// single-day principal phases and four equal intermediate spans.
func defaultPhases(cycleLength float64) []model.MoonPhase {
	intermediate := (cycleLength - 4) / 4
	if intermediate < 0 {
		intermediate = 0
	}
	return []model.MoonPhase{
		{Name: "New Moon", Length: 1, Icon: "new"},
		{Name: "Waxing Crescent", Length: intermediate, Icon: "waxing-crescent"},
		{Name: "First Quarter", Length: 1, Icon: "first-quarter"},
		{Name: "Waxing Gibbous", Length: intermediate, Icon: "waxing-gibbous"},
		{Name: "Full Moon", Length: 1, Icon: "full"},
		{Name: "Waning Gibbous", Length: intermediate, Icon: "waning-gibbous"},
		{Name: "Last Quarter", Length: 1, Icon: "last-quarter"},
		{Name: "Waning Crescent", Length: intermediate, Icon: "waning-crescent"},
	}
}
