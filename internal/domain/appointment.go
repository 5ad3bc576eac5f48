package domain

import (
	"strings"
	"time"
)

// Appointment is a scheduled session on the coach's calendar. Start is nil
// when the stored start could not be read; such appointments cannot be
// placed on a day.
type Appointment struct {
	ID              string     `bson:"_id" json:"id"`
	CoachID         string     `bson:"coachId" json:"coachId"`
	ClientID        string     `bson:"clientId" json:"clientId"`
	ClientName      string     `bson:"clientName,omitempty" json:"clientName,omitempty"`
	Type            string     `bson:"type" json:"type"` // e.g. "check-in", "training"
	Start           *time.Time `bson:"start,omitempty" json:"start,omitempty"`
	DurationMinutes int        `bson:"durationMinutes" json:"durationMinutes"`
	Status          string     `bson:"status,omitempty" json:"status,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// startLayouts are the textual forms appointment starts are stored in.
var startLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStart reads a stored start value. Layouts without a zone are read in
// loc. ok is false for blank or unparsable input.
func ParseStart(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
