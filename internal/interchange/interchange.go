// Package interchange translates external calendar documents into the
// engine's CalendarShape and back.
//
// Two formats are accepted on import:
//
//   - the native export document `{version, config, state?}`, which
//     round-trips exactly, and
//   - a foreign schema `{calendars: [...]}` produced by other calendar
//     tools, which is translated field by field (renames, defaults for
//     absent options, and the base-plus-leap-delta month transform).
//
// Import is all-or-nothing: a document that fails detection, parsing, or
// shape validation produces an error and no partial result.
package interchange

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/worldsmith/almanac/internal/model"
)

// Version is the current native document version.
const Version = 1

// Document is the native interchange format.
type Document struct {
	Version int                  `json:"version" yaml:"version"`
	Config  *model.CalendarShape `json:"config" yaml:"config"`
	State   *StateDoc            `json:"state,omitempty" yaml:"state,omitempty"`
}

// StateDoc is the optional tracked position carried by a document.
type StateDoc struct {
	Year   int `json:"year" yaml:"year"`
	Month  int `json:"month" yaml:"month"`
	Day    int `json:"day" yaml:"day"`
	Hour   int `json:"hour" yaml:"hour"`
	Minute int `json:"minute" yaml:"minute"`
	Second int `json:"second" yaml:"second"`
}

// DateTime converts the document state to a civil date/time.
func (s *StateDoc) DateTime() model.DateTime {
	return model.DateTime{
		Year:   s.Year,
		Month:  s.Month,
		Day:    s.Day,
		Hour:   s.Hour,
		Minute: s.Minute,
		Second: s.Second,
	}
}

// Result is a fully translated, validated import.
type Result struct {
	Shape *model.CalendarShape
	// State is the tracked position carried by the document, nil when the
	// document had none.
	State *model.DateTime
}

// Import auto-detects the format of raw JSON bytes, translates, fills
// missing ids, and validates. The returned shape satisfies every model
// invariant or an error is returned and nothing else.
func Import(data []byte) (*Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse interchange document: %w", err)
	}

	var res *Result
	var err error
	switch {
	case hasKey(raw, "calendars"):
		res, err = importForeign(data)
	case hasKey(raw, "version") && hasKey(raw, "config"):
		res, err = importNative(data)
	default:
		return nil, errors.New("unrecognized calendar document: expected a native {version, config} export or a {calendars: [...]} document")
	}
	if err != nil {
		return nil, err
	}

	res.Shape.EnsureIDs()
	if err := res.Shape.Validate(); err != nil {
		return nil, fmt.Errorf("imported calendar is invalid: %w", err)
	}
	return res, nil
}

// Export builds a native document from the active shape and state.
func Export(shape *model.CalendarShape, state *model.CalendarState) *Document {
	doc := &Document{
		Version: Version,
		Config:  shape,
	}
	if state != nil {
		dt := state.DateTime
		doc.State = &StateDoc{
			Year:   dt.Year,
			Month:  dt.Month,
			Day:    dt.Day,
			Hour:   dt.Hour,
			Minute: dt.Minute,
			Second: dt.Second,
		}
	}
	return doc
}

func hasKey(raw map[string]json.RawMessage, key string) bool {
	_, ok := raw[key]
	return ok
}

// importNative parses the round-tripping native format.
func importNative(data []byte) (*Result, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse native document: %w", err)
	}
	if doc.Config == nil {
		return nil, errors.New("native document has no config")
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("unsupported document version %d (newest supported is %d)", doc.Version, Version)
	}

	res := &Result{Shape: doc.Config}
	if doc.State != nil {
		dt := doc.State.DateTime()
		res.State = &dt
	}
	return res, nil
}
