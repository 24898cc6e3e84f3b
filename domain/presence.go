// Package domain contains core concepts of the collaboration engine.
// This file defines ephemeral presence state. Presence lives in memory
// only and follows a different durability path than Updates.
package domain

import (
	"time"
)

// Cursor is a participant's pointer position on the shared layout.
// Writes are last-write-wins and never persisted.
type Cursor struct {
	X         float64
	Y         float64
	UpdatedAt time.Time
}

// Presence is the ephemeral view of one roster member: who they are,
// when they were last seen, and where their cursor sits.
type Presence struct {
	UserID      string
	DisplayName string
	Role        Role
	LastSeen    time.Time
	Cursor      *Cursor
}
