// internal/domain/exercise.go
package domain

import (
	"time"
)

// LibraryExercise is a reusable exercise definition in a coach's library.
// The template editor copies it into a schedule as an Exercise entry.
type LibraryExercise struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	CoachID      string    `bson:"coachId" json:"coachId"`
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroups []string  `bson:"muscleGroups,omitempty" json:"muscleGroups,omitempty"` // e.g. "chest", "legs"
	Instructions string    `bson:"instructions,omitempty" json:"instructions,omitempty"`
	VideoRef     string    `bson:"videoRef,omitempty" json:"videoRef,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
