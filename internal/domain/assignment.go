package domain

import (
	"time"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

func (s AssignmentStatus) Valid() bool {
	return s == AssignmentActive || s == AssignmentCompleted || s == AssignmentCancelled
}

// AssignmentIDSeparator joins client and template IDs into an assignment ID.
const AssignmentIDSeparator = "_"

// AssignmentID is deterministic so a client holds at most one assignment per
// template; assigning again overwrites.
func AssignmentID(clientID, templateID string) string {
	return clientID + AssignmentIDSeparator + templateID
}

// Assignment points one published Template at one client. It does not copy
// template content.
type Assignment struct {
	ID         string           `bson:"_id" json:"id"`
	TemplateID string           `bson:"templateId" json:"templateId"`
	ClientID   string           `bson:"clientId" json:"clientId"`
	CoachID    string           `bson:"coachId" json:"coachId"` // template owner at time of assignment
	Status     AssignmentStatus `bson:"status" json:"status"`
	Progress   int              `bson:"progress" json:"progress"` // 0-100
	StartDate  time.Time        `bson:"startDate" json:"startDate"`
	EndDate    *time.Time       `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Notes      string           `bson:"notes" json:"notes"`
	UpdatedAt  time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// ValidateProgress checks a progress/status update.
func ValidateProgress(progress int, status AssignmentStatus) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}
	if status != "" && !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}
