// Package domain contains core concepts of the collaboration engine.
// This file defines Participant entities and role ordering.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"time"
)

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleOwner:  3,
}

// AtLeast reports whether r grants every capability of required.
func (r Role) AtLeast(required Role) bool {
	return roleRank[r] >= roleRank[required]
}

func (r Role) Known() bool {
	_, ok := roleRank[r]
	return ok
}

// Participant is a user admitted to a Session roster. The transport handle
// is deliberately absent: delivery endpoints are registered with the
// fanout side and looked up by user id, never owned by this record.
type Participant struct {
	UserID      string
	DisplayName string
	Role        Role
	JoinedAt    time.Time
	LastSeen    time.Time
}

func NewParticipant(userID, displayName string, role Role, now time.Time) Participant {
	return Participant{
		UserID:      userID,
		DisplayName: displayName,
		Role:        role,
		JoinedAt:    now,
		LastSeen:    now,
	}
}
