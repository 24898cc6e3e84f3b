// Package domain contains core concepts of the collaboration engine.
// This file defines Conflict records and resolution outcomes.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type ConflictStatus string

const (
	ConflictPending  ConflictStatus = "pending"
	ConflictAccepted ConflictStatus = "accepted"
	ConflictRejected ConflictStatus = "rejected"
	ConflictMerged   ConflictStatus = "merged"
)

// Resolution is the policy a resolver picks for a pending Conflict.
type Resolution string

const (
	ResolutionAccept Resolution = "accept"
	ResolutionReject Resolution = "reject"
	ResolutionMerge  Resolution = "merge"
)

func (r Resolution) Known() bool {
	switch r {
	case ResolutionAccept, ResolutionReject, ResolutionMerge:
		return true
	}
	return false
}

// Status returns the terminal state a resolution leads to.
func (r Resolution) Status() ConflictStatus {
	switch r {
	case ResolutionAccept:
		return ConflictAccepted
	case ResolutionReject:
		return ConflictRejected
	case ResolutionMerge:
		return ConflictMerged
	}
	return ConflictPending
}

// Conflict groups two or more divergent concurrent Updates touching the
// same logical entity. Updates are referenced by id, never embedded.
// Resolution is terminal: a resolved Conflict is never re-resolved.
type Conflict struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	UpdateIDs      []uuid.UUID
	ParticipantIDs []string
	DetectedAt     time.Time
	Status         ConflictStatus
	ResolvedBy     string
	ResolvedAt     *time.Time
	Version        uint64
}

func NewConflict(sessionID uuid.UUID, updates []Update, now time.Time) Conflict {
	c := Conflict{
		ID:         uuid.New(),
		SessionID:  sessionID,
		DetectedAt: now,
		Status:     ConflictPending,
	}
	for _, u := range updates {
		c.Implicate(u)
	}
	return c
}

// Implicate adds an update and its author to the conflict, deduplicated,
// so a window with three or more divergent edits still collapses into one
// multi-way record instead of pairwise duplicates.
func (c *Conflict) Implicate(u Update) {
	if !lo.Contains(c.UpdateIDs, u.ID) {
		c.UpdateIDs = append(c.UpdateIDs, u.ID)
	}
	if !lo.Contains(c.ParticipantIDs, u.AuthorID) {
		c.ParticipantIDs = append(c.ParticipantIDs, u.AuthorID)
	}
}

func (c *Conflict) Implicates(updateID uuid.UUID) bool {
	return lo.Contains(c.UpdateIDs, updateID)
}

func (c *Conflict) Resolved() bool {
	return c.Status != ConflictPending
}

// Resolve stamps the terminal state. Callers check Resolved first; the
// duplicate-request path returns the stored record untouched.
func (c *Conflict) Resolve(resolution Resolution, resolvedBy string, now time.Time) {
	c.Status = resolution.Status()
	c.ResolvedBy = resolvedBy
	c.ResolvedAt = &now
}

func (c *Conflict) Clone() *Conflict {
	cp := *c
	cp.UpdateIDs = append([]uuid.UUID(nil), c.UpdateIDs...)
	cp.ParticipantIDs = append([]string(nil), c.ParticipantIDs...)
	return &cp
}
