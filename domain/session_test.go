package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_Admit_AddsParticipant(t *testing.T) {
	now := time.Now()
	owner := NewParticipant("u1", "Alice", RoleOwner, now)
	session := NewSession("doc-1", owner, now)

	session.Admit(NewParticipant("u2", "Bob", RoleEditor, now.Add(time.Second)))

	require.Len(t, session.Participants, 2)
	p, ok := session.Participant("u2")
	require.True(t, ok)
	require.Equal(t, RoleEditor, p.Role)
}

func TestSession_Admit_ReJoinRefreshesWithoutEscalating(t *testing.T) {
	now := time.Now()
	owner := NewParticipant("u1", "Alice", RoleOwner, now)
	session := NewSession("doc-1", owner, now)
	session.Admit(NewParticipant("u2", "Bob", RoleViewer, now))

	// Re-join asks for editor, keeps the original viewer role
	later := now.Add(3 * time.Minute)
	session.Admit(NewParticipant("u2", "Bobby", RoleEditor, later))

	require.Len(t, session.Participants, 2)
	p, _ := session.Participant("u2")
	require.Equal(t, RoleViewer, p.Role)
	require.Equal(t, "Bobby", p.DisplayName)
	require.Equal(t, now, p.JoinedAt)
	require.Equal(t, later, p.LastSeen)
}

func TestSession_Evict_ReportsEmptyRoster(t *testing.T) {
	now := time.Now()
	session := NewSession("doc-1", NewParticipant("u1", "Alice", RoleOwner, now), now)

	empty := session.Evict("u1")

	require.True(t, empty)
	require.True(t, session.IsActive, "eviction must not end the session")
}

func TestSession_Reapable_OnlyAfterGraceElapsed(t *testing.T) {
	now := time.Now()
	session := NewSession("doc-1", NewParticipant("u1", "Alice", RoleOwner, now), now)
	session.Evict("u1")
	session.Touch(now)

	grace := 2 * time.Minute
	require.False(t, session.Reapable(now.Add(grace-time.Second), grace))
	require.True(t, session.Reapable(now.Add(grace), grace))
}

func TestSession_Reapable_FalseWhileOccupied(t *testing.T) {
	now := time.Now()
	session := NewSession("doc-1", NewParticipant("u1", "Alice", RoleOwner, now), now)

	require.False(t, session.Reapable(now.Add(time.Hour), 2*time.Minute))
}

func TestSession_Roster_OrderedByJoinTime(t *testing.T) {
	now := time.Now()
	session := NewSession("doc-1", NewParticipant("u3", "Carol", RoleOwner, now), now)
	session.Admit(NewParticipant("u1", "Alice", RoleEditor, now.Add(2*time.Second)))
	session.Admit(NewParticipant("u2", "Bob", RoleViewer, now.Add(time.Second)))

	roster := session.Roster()

	require.Len(t, roster, 3)
	require.Equal(t, "u3", roster[0].UserID)
	require.Equal(t, "u2", roster[1].UserID)
	require.Equal(t, "u1", roster[2].UserID)
}

func TestSession_Clone_IsolatesRoster(t *testing.T) {
	now := time.Now()
	session := NewSession("doc-1", NewParticipant("u1", "Alice", RoleOwner, now), now)

	clone := session.Clone()
	clone.Admit(NewParticipant("u2", "Bob", RoleViewer, now))

	require.Len(t, session.Participants, 1)
	require.Len(t, clone.Participants, 2)
}

func TestRole_AtLeast(t *testing.T) {
	require.True(t, RoleOwner.AtLeast(RoleEditor))
	require.True(t, RoleEditor.AtLeast(RoleEditor))
	require.True(t, RoleEditor.AtLeast(RoleViewer))
	require.False(t, RoleViewer.AtLeast(RoleEditor))
	require.False(t, Role("ghost").AtLeast(RoleViewer))
}
