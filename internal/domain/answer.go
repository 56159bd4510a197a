// Package domain contains core domain types for the Ikigai application.
package domain

import (
	"fmt"
	"strings"
)

// Field identifies one of the four reflection answers.
type Field string

const (
	// FieldPassion is what the user loves.
	FieldPassion Field = "passion"
	// FieldVocation is what the user is good at.
	FieldVocation Field = "vocation"
	// FieldMission is what the world needs.
	FieldMission Field = "mission"
	// FieldProfession is what the user can be paid for.
	FieldProfession Field = "profession"
)

// Fields lists the answer fields in the order the wizard asks for them.
var Fields = []Field{FieldPassion, FieldVocation, FieldMission, FieldProfession}

// ParseField converts a field name into a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Fields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown answer field %q", name)
}

// AnswerRecord holds the four free-text reflection answers.
type AnswerRecord struct {
	Passion    string `json:"passion"`
	Vocation   string `json:"vocation"`
	Mission    string `json:"mission"`
	Profession string `json:"profession"`
}

// Get returns the value of the given field.
func (a AnswerRecord) Get(f Field) string {
	switch f {
	case FieldPassion:
		return a.Passion
	case FieldVocation:
		return a.Vocation
	case FieldMission:
		return a.Mission
	case FieldProfession:
		return a.Profession
	default:
		return ""
	}
}

// With returns a copy of the record with the given field replaced.
// Unknown fields leave the record unchanged.
func (a AnswerRecord) With(f Field, value string) AnswerRecord {
	switch f {
	case FieldPassion:
		a.Passion = value
	case FieldVocation:
		a.Vocation = value
	case FieldMission:
		a.Mission = value
	case FieldProfession:
		a.Profession = value
	}
	return a
}

// IsAnswered reports whether the field is non-empty after trimming whitespace.
func (a AnswerRecord) IsAnswered(f Field) bool {
	return strings.TrimSpace(a.Get(f)) != ""
}

// IsComplete returns true if every field has been answered.
func (a AnswerRecord) IsComplete() bool {
	for _, f := range Fields {
		if !a.IsAnswered(f) {
			return false
		}
	}
	return true
}
