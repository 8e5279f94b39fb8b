package engine

import "github.com/worldsmith/almanac/internal/model"

// PhaseInfo describes where a date falls within a moon's cycle.
//
// Illumination and the named phase are computed from the same cycle position
// but by separate formulas: illumination is a triangular ramp over the whole
// cycle while the phase is found by walking the configured phase spans. The
// two can disagree near phase edges; that mirrors the behavior users expect
// from existing calendar tools and is not reconciled here.
type PhaseInfo struct {
	MoonID        string          `json:"moonId"`
	MoonName      string          `json:"moonName"`
	Phase         model.MoonPhase `json:"phase"`
	PhaseIndex    int             `json:"phaseIndex"`
	CyclePosition float64         `json:"cyclePosition"` // days into the cycle, [0, cycleLength)
	Illumination  float64         `json:"illumination"`  // percent, 0..100
}

// MoonPhase resolves the phase of a single moon on the given date. Returns
// nil for a moon with no configured phases; callers substitute a placeholder.
func MoonPhase(date model.DateTime, moon *model.Moon, shape *model.CalendarShape) *PhaseInfo {
	if len(moon.Phases) == 0 || moon.CycleLength <= 0 {
		return nil
	}

	ref := model.DateTime{
		Year:  moon.ReferenceNewMoon.Year,
		Month: moon.ReferenceNewMoon.Month,
		Day:   moon.ReferenceNewMoon.Day,
	}
	dist := DayDistance(ref, date.Date(), shape)
	pos := fmod(float64(dist), moon.CycleLength)

	// Walk the phase spans. Rounding can leave the tail of the cycle
	// unassigned; the last phase absorbs it.
	idx := len(moon.Phases) - 1
	acc := 0.0
	for i, p := range moon.Phases {
		acc += p.Length
		if pos < acc {
			idx = i
			break
		}
	}

	return &PhaseInfo{
		MoonID:        moon.ID,
		MoonName:      moon.Name,
		Phase:         moon.Phases[idx],
		PhaseIndex:    idx,
		CyclePosition: pos,
		Illumination:  illumination(pos, moon.CycleLength),
	}
}

// MoonPhases resolves every moon of the shape for the given date. Moons with
// no phases are skipped.
func MoonPhases(date model.DateTime, shape *model.CalendarShape) []PhaseInfo {
	var out []PhaseInfo
	for i := range shape.Moons {
		if info := MoonPhase(date, &shape.Moons[i], shape); info != nil {
			out = append(out, *info)
		}
	}
	return out
}

// illumination maps a cycle position to a percentage with a triangular ramp:
// 0→100 over the first half of the cycle, 100→0 over the second half.
func illumination(pos, cycle float64) float64 {
	half := cycle / 2
	if pos <= half {
		return pos / half * 100
	}
	return (cycle - pos) / half * 100
}
