package domain

import (
	"strings"
	"time"
)

// Role type to distinguish between actor roles
type Role string

const (
	RoleCoach  Role = "coach"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

// ClientProfile is the read-only view of a client this subsystem needs:
// who they are and which coach looks after them.
type ClientProfile struct {
	ID        string    `bson:"_id" json:"id"`
	CoachID   string    `bson:"coachId" json:"coachId"`
	FirstName string    `bson:"firstName" json:"firstName"`
	LastName  string    `bson:"lastName" json:"lastName"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// DisplayName is "First Last", falling back to the email and then the ID.
func (c ClientProfile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name != "" {
		return name
	}
	if c.Email != "" {
		return c.Email
	}
	return c.ID
}

// ClientDisplayName resolves id against clients, returning id itself when
// the client is unknown.
func ClientDisplayName(clients []ClientProfile, id string) string {
	for _, c := range clients {
		if c.ID == id {
			return c.DisplayName()
		}
	}
	return id
}

// Actor is the identity behind a request.
type Actor struct {
	ID   string
	Role Role
}

// CanManage reports whether the actor may change records owned by ownerID.
// Staff manage everything; coaches manage their own.
func (a Actor) CanManage(ownerID string) bool {
	if a.ID == "" {
		return false
	}
	return a.Role == RoleStaff || (a.Role == RoleCoach && a.ID == ownerID)
}
