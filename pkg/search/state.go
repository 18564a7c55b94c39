package search

import (
	"slices"

	"github.com/khonager/Trans/pkg/location"
	"github.com/khonager/Trans/pkg/transit"
)

// Field identifies one of the two station pickers.
type Field int

const (
	FieldNone Field = iota
	FieldFrom
	FieldTo
)

func (f Field) String() string {
	switch f {
	case FieldFrom:
		return "from"
	case FieldTo:
		return "to"
	}
	return "none"
}

// State is a snapshot of the search session handed to the presentation layer.
type State struct {
	From     *transit.Station
	To       *transit.Station
	FromText string
	ToText   string

	// Active is the field the suggestions belong to.
	Active      Field
	Suggestions []transit.Station

	Position *location.Position
}

// Text returns the current text of field.
func (s State) Text(field Field) string {
	switch field {
	case FieldFrom:
		return s.FromText
	case FieldTo:
		return s.ToText
	}
	return ""
}

// Station returns the confirmed selection of field, if any.
func (s State) Station(field Field) *transit.Station {
	switch field {
	case FieldFrom:
		return s.From
	case FieldTo:
		return s.To
	}
	return nil
}

// Ready reports whether both stations are selected and distinct.
func (s State) Ready() bool {
	return s.From != nil && s.To != nil && s.From.ID != s.To.ID
}

func (s *State) setText(field Field, text string) {
	switch field {
	case FieldFrom:
		s.FromText = text
	case FieldTo:
		s.ToText = text
	}
}

func (s *State) setStation(field Field, st *transit.Station) {
	switch field {
	case FieldFrom:
		s.From = st
	case FieldTo:
		s.To = st
	}
}

func (s State) clone() State {
	c := s
	c.From = cloneStation(s.From)
	c.To = cloneStation(s.To)
	c.Suggestions = slices.Clone(s.Suggestions)
	if s.Position != nil {
		p := *s.Position
		c.Position = &p
	}
	return c
}

func cloneStation(st *transit.Station) *transit.Station {
	if st == nil {
		return nil
	}
	c := *st
	return &c
}
