// Package domain contains core concepts of the collaboration engine.
// This file defines Update records, the append-only unit of the log.
// Updates are immutable once persisted.
package domain

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

type UpdateType string

const (
	UpdatePositionalMove   UpdateType = "positional-move"
	UpdateStructuralChange UpdateType = "structural-change"
	UpdateAnnotation       UpdateType = "annotation"
	UpdateInstruction      UpdateType = "instruction"
)

var knownUpdateTypes = map[UpdateType]struct{}{
	UpdatePositionalMove:   {},
	UpdateStructuralChange: {},
	UpdateAnnotation:       {},
	UpdateInstruction:      {},
}

func (t UpdateType) Known() bool {
	_, ok := knownUpdateTypes[t]
	return ok
}

// Update is an atomic proposed mutation of the shared document. Sequence
// numbers are monotonic and gapless within a session; the payload stays
// opaque to the engine.
type Update struct {
	ID          uuid.UUID
	SessionID   uuid.UUID
	AuthorID    string
	Type        UpdateType
	Payload     []byte
	Sequence    uint64
	SubmittedAt time.Time
	AppliedAt   *time.Time
	Version     uint64
}

func NewUpdate(sessionID uuid.UUID, authorID string, kind UpdateType, payload []byte, now time.Time) Update {
	return Update{
		ID:          uuid.New(),
		SessionID:   sessionID,
		AuthorID:    authorID,
		Type:        kind,
		Payload:     payload,
		SubmittedAt: now,
	}
}

func (u Update) Applied() bool {
	return u.AppliedAt != nil
}

// Digest fingerprints the payload. Two updates with equal digests carry
// identical bytes and are treated as idempotent repeats, never a conflict.
func (u Update) Digest() string {
	sum := blake2b.Sum256(u.Payload)
	return hex.EncodeToString(sum[:])
}

// DivergesFrom reports whether the two payloads differ byte-wise. Entity
// identity is a separate question answered by the matcher collaborator.
func (u Update) DivergesFrom(other Update) bool {
	return u.Digest() != other.Digest()
}
