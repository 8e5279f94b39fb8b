package model

// Gregorian returns the reference Gregorian shape: 12 months, 7 weekdays,
// 24/60/60 time units, the Gregorian leap rule adding one day to February,
// four seasons, and Earth's moon with the standard 29.53-day cycle.
//
// This is the validation baseline for the engine and the default shape
// installed when no calendar has been configured yet.
func Gregorian() *CalendarShape {
	shape := &CalendarShape{
		Name: "Gregorian",
		Months: []Month{
			{ID: "january", Name: "January", Abbreviation: "Jan", Days: 31},
			{ID: "february", Name: "February", Abbreviation: "Feb", Days: 28},
			{ID: "march", Name: "March", Abbreviation: "Mar", Days: 31},
			{ID: "april", Name: "April", Abbreviation: "Apr", Days: 30},
			{ID: "may", Name: "May", Abbreviation: "May", Days: 31},
			{ID: "june", Name: "June", Abbreviation: "Jun", Days: 30},
			{ID: "july", Name: "July", Abbreviation: "Jul", Days: 31},
			{ID: "august", Name: "August", Abbreviation: "Aug", Days: 31},
			{ID: "september", Name: "September", Abbreviation: "Sep", Days: 30},
			{ID: "october", Name: "October", Abbreviation: "Oct", Days: 31},
			{ID: "november", Name: "November", Abbreviation: "Nov", Days: 30},
			{ID: "december", Name: "December", Abbreviation: "Dec", Days: 31},
		},
		Weekdays: []Weekday{
			{ID: "sunday", Name: "Sunday", Abbreviation: "Su"},
			{ID: "monday", Name: "Monday", Abbreviation: "Mo"},
			{ID: "tuesday", Name: "Tuesday", Abbreviation: "Tu"},
			{ID: "wednesday", Name: "Wednesday", Abbreviation: "We"},
			{ID: "thursday", Name: "Thursday", Abbreviation: "Th"},
			{ID: "friday", Name: "Friday", Abbreviation: "Fr"},
			{ID: "saturday", Name: "Saturday", Abbreviation: "Sa"},
		},
		TimeUnits: TimeUnits{
			HoursPerDay:      24,
			MinutesPerHour:   60,
			SecondsPerMinute: 60,
		},
		Year: YearConfig{
			StartingYear:   1,
			YearZeroExists: false,
		},
		LeapYear: LeapYear{
			Enabled: true,
			Rule:    LeapRuleGregorian,
			Months:  []LeapMonth{{MonthID: "february", ExtraDays: 1}},
		},
		Seasons: []Season{
			{ID: "spring", Name: "Spring", StartingMonth: 2, StartingDay: 20, Color: "#46b946", Icon: "spring"},
			{ID: "summer", Name: "Summer", StartingMonth: 5, StartingDay: 20, Color: "#e0c40b", Icon: "summer"},
			{ID: "autumn", Name: "Autumn", StartingMonth: 8, StartingDay: 22, Color: "#ff8e47", Icon: "fall"},
			{ID: "winter", Name: "Winter", StartingMonth: 11, StartingDay: 21, Color: "#479dff", Icon: "winter"},
		},
		Moons: []Moon{
			{
				ID:          "moon",
				Name:        "Moon",
				Color:       "#ffffff",
				CycleLength: 29.53059,
				Phases: []MoonPhase{
					{Name: "New Moon", Length: 1, Icon: "new"},
					{Name: "Waxing Crescent", Length: 6.3826475, Icon: "waxing-crescent"},
					{Name: "First Quarter", Length: 1, Icon: "first-quarter"},
					{Name: "Waxing Gibbous", Length: 6.3826475, Icon: "waxing-gibbous"},
					{Name: "Full Moon", Length: 1, Icon: "full"},
					{Name: "Waning Gibbous", Length: 6.3826475, Icon: "waning-gibbous"},
					{Name: "Last Quarter", Length: 1, Icon: "last-quarter"},
					{Name: "Waning Crescent", Length: 6.3826475, Icon: "waning-crescent"},
				},
				ReferenceNewMoon: ReferenceDate{Year: 2000, Month: 0, Day: 6},
			},
		},
	}

	return shape
}
