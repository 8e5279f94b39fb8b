package interchange

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/worldsmith/almanac/internal/model"
)

func TestImportNative(t *testing.T) {
	doc := Export(model.Gregorian(), &model.CalendarState{
		DateTime: model.DateTime{Year: 2024, Month: 1, Day: 29, Hour: 12},
	})
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	res, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if res.Shape.Name != "Gregorian" {
		t.Errorf("shape name = %q, want Gregorian", res.Shape.Name)
	}
	if len(res.Shape.Months) != 12 {
		t.Errorf("months = %d, want 12", len(res.Shape.Months))
	}
	if res.State == nil {
		t.Fatal("expected state, got nil")
	}
	want := model.DateTime{Year: 2024, Month: 1, Day: 29, Hour: 12}
	if *res.State != want {
		t.Errorf("state = %+v, want %+v", *res.State, want)
	}
}

func TestImportNativeWithoutState(t *testing.T) {
	data, err := json.Marshal(Export(model.Gregorian(), nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	res, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if res.State != nil {
		t.Errorf("expected nil state, got %+v", *res.State)
	}
}

func TestImportNativeRejectsNewerVersion(t *testing.T) {
	if _, err := Import([]byte(`{"version": 99, "config": {"months": []}}`)); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestImportUnrecognized(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty object", `{}`},
		{"not json", `months: []`},
		{"wrong keys", `{"schedule": [], "events": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Import([]byte(tc.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

const foreignDoc = `{
  "calendars": [
    {
      "name": "Harptos",
      "currentDate": {"year": 1492, "month": 1, "day": 14, "seconds": 3725},
      "leapYear": {"rule": "custom", "customMod": 4},
      "months": [
        {"name": "Hammer", "abbreviation": "Ham", "numberOfDays": 30, "numberOfLeapYearDays": 30},
        {"name": "Midwinter", "abbreviation": "Mid", "numberOfDays": 1, "numberOfLeapYearDays": 2},
        {"name": "Alturiak", "abbreviation": "Alt", "numberOfDays": 30, "numberOfLeapYearDays": 30}
      ],
      "weekdays": [
        {"name": "First Day", "abbreviation": "1st"},
        {"name": "Second Day", "abbreviation": "2nd"},
        {"name": "Third Day", "abbreviation": "3rd"}
      ],
      "seasons": [
        {"name": "Winter", "startingMonth": 0, "startingDay": 0, "color": "#479dff"}
      ],
      "moons": [
        {"name": "Selune", "cycleLength": 30.45, "color": "#ffffff",
         "firstNewMoon": {"year": 1372, "month": 0, "day": 15}}
      ],
      "time": {"hoursInDay": 24, "minutesInHour": 60, "secondsInMinute": 60},
      "year": {"numericRepresentation": 1372, "prefix": "", "postfix": " DR", "firstWeekday": 0}
    }
  ]
}`

func TestImportForeign(t *testing.T) {
	res, err := Import([]byte(foreignDoc))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	shape := res.Shape

	if shape.Name != "Harptos" {
		t.Errorf("name = %q, want Harptos", shape.Name)
	}
	if shape.Year.StartingYear != 1372 {
		t.Errorf("startingYear = %d, want 1372", shape.Year.StartingYear)
	}
	if shape.Year.Suffix != "DR" {
		t.Errorf("suffix = %q, want DR", shape.Year.Suffix)
	}

	// The two-day-count months become base length plus leap delta.
	if got := shape.Months[1].Days; got != 1 {
		t.Errorf("Midwinter base days = %d, want 1", got)
	}
	if shape.LeapYear.Rule != model.LeapRuleSimple || shape.LeapYear.Interval != 4 {
		t.Errorf("leap rule = %+v, want simple interval 4", shape.LeapYear)
	}
	if len(shape.LeapYear.Months) != 1 {
		t.Fatalf("leap months = %d, want 1", len(shape.LeapYear.Months))
	}
	if shape.LeapYear.Months[0].MonthID != shape.Months[1].ID {
		t.Error("leap month id does not reference Midwinter")
	}
	if shape.LeapYear.Months[0].ExtraDays != 1 {
		t.Errorf("leap extra days = %d, want 1", shape.LeapYear.Months[0].ExtraDays)
	}

	// 0-indexed foreign days become 1-based.
	if s := shape.Seasons[0]; s.StartingMonth != 0 || s.StartingDay != 1 {
		t.Errorf("season start = (%d, %d), want (0, 1)", s.StartingMonth, s.StartingDay)
	}
	if ref := shape.Moons[0].ReferenceNewMoon; ref != (model.ReferenceDate{Year: 1372, Month: 0, Day: 16}) {
		t.Errorf("reference new moon = %+v", ref)
	}

	// A moon without phases gets the default eight-phase split.
	if got := len(shape.Moons[0].Phases); got != 8 {
		t.Fatalf("phases = %d, want 8", got)
	}
	if got := shape.Moons[0].Phases[1].Length; got != (30.45-4)/4 {
		t.Errorf("intermediate phase length = %v, want %v", got, (30.45-4)/4)
	}

	// currentDate: day 14 (0-indexed) and 3725 seconds past midnight.
	if res.State == nil {
		t.Fatal("expected state from currentDate")
	}
	want := model.DateTime{Year: 1492, Month: 1, Day: 15, Hour: 1, Minute: 2, Second: 5}
	if *res.State != want {
		t.Errorf("state = %+v, want %+v", *res.State, want)
	}

	// Everything gets an id filled in.
	for i, m := range shape.Months {
		if m.ID == "" {
			t.Errorf("month %d has empty id", i)
		}
	}
	if err := shape.Validate(); err != nil {
		t.Errorf("imported shape invalid: %v", err)
	}
}

func TestImportForeignDefaults(t *testing.T) {
	data := `{
	  "calendars": [
	    {
	      "months": [{"name": "Only", "numberOfDays": 10, "numberOfLeapYearDays": 10}],
	      "weekdays": [{"name": "Day"}]
	    }
	  ]
	}`
	res, err := Import([]byte(data))
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if res.Shape.Name != "Imported Calendar" {
		t.Errorf("name = %q, want Imported Calendar", res.Shape.Name)
	}
	tu := res.Shape.TimeUnits
	if tu.HoursPerDay != 24 || tu.MinutesPerHour != 60 || tu.SecondsPerMinute != 60 {
		t.Errorf("time units = %+v, want 24/60/60", tu)
	}
	if res.Shape.LeapYear.Enabled {
		t.Error("expected leap year disabled for absent rule")
	}
	if res.State != nil {
		t.Errorf("expected nil state for absent currentDate, got %+v", *res.State)
	}
}

func TestImportForeignErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty calendars", `{"calendars": []}`},
		{"no months", `{"calendars": [{"weekdays": [{"name": "Day"}]}]}`},
		{"no weekdays", `{"calendars": [{"months": [{"name": "M", "numberOfDays": 10}]}]}`},
		{"zero-day month", `{"calendars": [{"months": [{"name": "M", "numberOfDays": 0}], "weekdays": [{"name": "Day"}]}]}`},
		{"custom rule without mod", `{"calendars": [{"leapYear": {"rule": "custom"}, "months": [{"name": "M", "numberOfDays": 10}], "weekdays": [{"name": "Day"}]}]}`},
		{"unknown rule", `{"calendars": [{"leapYear": {"rule": "lunar"}, "months": [{"name": "M", "numberOfDays": 10}], "weekdays": [{"name": "Day"}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Import([]byte(tc.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestExportRoundTrip(t *testing.T) {
	shape := model.Gregorian()
	state := &model.CalendarState{DateTime: model.DateTime{Year: 1999, Month: 11, Day: 31, Hour: 23, Minute: 59, Second: 59}}

	data, err := json.Marshal(Export(shape, state))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	res, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if res.Shape.Months[1].Days != shape.Months[1].Days {
		t.Error("month days did not survive round trip")
	}
	if *res.State != state.DateTime {
		t.Errorf("state = %+v, want %+v", *res.State, state.DateTime)
	}
}

const presetYAML = `version: 1
config:
  name: Two Seasons
  months:
    - name: Bright
      days: 100
    - name: Dark
      days: 100
  weekdays:
    - name: Oneday
    - name: Twoday
  timeUnits:
    hoursPerDay: 20
    minutesPerHour: 50
    secondsPerMinute: 50
  yearConfig:
    startingYear: 1
state:
  year: 5
  month: 1
  day: 10
`

func writePreset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	return path
}

func TestLoadPresetFile(t *testing.T) {
	path := writePreset(t, t.TempDir(), "two-seasons.yaml", presetYAML)

	p, err := LoadPresetFile(path)
	if err != nil {
		t.Fatalf("LoadPresetFile() error: %v", err)
	}
	if p.Slug != "two-seasons" {
		t.Errorf("slug = %q, want two-seasons", p.Slug)
	}
	cfg := p.Document.Config
	if cfg.Name != "Two Seasons" || len(cfg.Months) != 2 || cfg.TimeUnits.HoursPerDay != 20 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Months[0].ID == "" {
		t.Error("expected ids to be filled")
	}
	if p.Document.State == nil || p.Document.State.Year != 5 {
		t.Errorf("unexpected state: %+v", p.Document.State)
	}
}

func TestLoadPresetFileInvalid(t *testing.T) {
	path := writePreset(t, t.TempDir(), "bad.yaml", "version: 1\nconfig:\n  months: []\n")
	if _, err := LoadPresetFile(path); err == nil {
		t.Error("expected error for empty months")
	}
}

func TestLoadPresetDir(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "b.yaml", presetYAML)
	writePreset(t, dir, "a.yml", presetYAML)
	writePreset(t, dir, "ignore.txt", "not a preset")

	presets, err := LoadPresetDir(dir)
	if err != nil {
		t.Fatalf("LoadPresetDir() error: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("presets = %d, want 2", len(presets))
	}
	if presets[0].Slug != "a" || presets[1].Slug != "b" {
		t.Errorf("slugs = %q, %q; want a, b", presets[0].Slug, presets[1].Slug)
	}
}

func TestLoadPresetDirMissing(t *testing.T) {
	presets, err := LoadPresetDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expected nil error for missing dir, got %v", err)
	}
	if presets != nil {
		t.Errorf("expected nil presets, got %v", presets)
	}
}
