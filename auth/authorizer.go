package auth

import (
	"context"
	"log/slog"

	"board-lab/contract"
	"board-lab/domain"

	"github.com/google/uuid"
)

// RosterAuthorizer answers capability checks from the persisted session roster.
// Every mutating operation consults this single policy point, so denials
// surface in one auditable place instead of scattered conditionals.
type RosterAuthorizer struct {
	sessions contract.ISessionStore
	log      *slog.Logger
}

var _ contract.Authorizer = (*RosterAuthorizer)(nil)

func NewRosterAuthorizer(sessions contract.ISessionStore, log *slog.Logger) *RosterAuthorizer {
	return &RosterAuthorizer{sessions: sessions, log: log}
}

// IsAuthorized reports whether userID holds at least the required role in the session roster.
// Lookup failures deny, a missing session grants nothing.
func (a *RosterAuthorizer) IsAuthorized(ctx context.Context, userID string, sessionID uuid.UUID, required domain.Role) bool {
	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		a.log.Warn("Authorization lookup failed, denying",
			"user_id", userID,
			"session_id", sessionID,
			"error", err)
		return false
	}

	p, ok := sess.Participant(userID)
	if !ok {
		a.log.Warn("Authorization denied, not a roster member",
			"user_id", userID,
			"session_id", sessionID,
			"required_role", required)
		return false
	}

	if !p.Role.AtLeast(required) {
		a.log.Warn("Authorization denied, insufficient role",
			"user_id", userID,
			"session_id", sessionID,
			"held_role", p.Role,
			"required_role", required)
		return false
	}
	return true
}
