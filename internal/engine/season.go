package engine

import (
	"sort"

	"github.com/worldsmith/almanac/internal/model"
)

// CurrentSeason resolves the season in effect on the given date.
//
// Seasons are considered in (startingMonth, startingDay) order and the last
// one whose start is on or before the date wins. When the date falls before
// every configured start, the last season in sorted order is returned: it
// began in the previous year and is still active. Returns nil when the shape
// has no seasons.
func CurrentSeason(date model.DateTime, shape *model.CalendarShape) *model.Season {
	if len(shape.Seasons) == 0 {
		return nil
	}

	sorted := make([]model.Season, len(shape.Seasons))
	copy(sorted, shape.Seasons)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartingMonth != sorted[j].StartingMonth {
			return sorted[i].StartingMonth < sorted[j].StartingMonth
		}
		return sorted[i].StartingDay < sorted[j].StartingDay
	})

	var current *model.Season
	for i := range sorted {
		s := &sorted[i]
		started := s.StartingMonth < date.Month ||
			(s.StartingMonth == date.Month && s.StartingDay <= date.Day)
		if started {
			current = s
		}
	}
	if current == nil {
		// Wraparound: the latest season of the previous year.
		current = &sorted[len(sorted)-1]
	}

	out := *current
	return &out
}
