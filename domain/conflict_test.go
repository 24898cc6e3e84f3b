package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestConflict_Implicate_DeduplicatesUpdatesAndAuthors(t *testing.T) {
	session := uuid.New()
	now := time.Now()
	a := NewUpdate(session, "u1", UpdatePositionalMove, []byte(`{"x":1}`), now)
	b := NewUpdate(session, "u2", UpdatePositionalMove, []byte(`{"x":2}`), now)
	c := NewUpdate(session, "u2", UpdatePositionalMove, []byte(`{"x":3}`), now)

	conflict := NewConflict(session, []Update{a, b}, now)
	conflict.Implicate(c)
	conflict.Implicate(b) // duplicate

	require.Len(t, conflict.UpdateIDs, 3)
	require.Len(t, conflict.ParticipantIDs, 2)
	require.True(t, conflict.Implicates(a.ID))
	require.True(t, conflict.Implicates(c.ID))
	require.False(t, conflict.Implicates(uuid.New()))
}

func TestConflict_Resolve_IsTerminal(t *testing.T) {
	session := uuid.New()
	now := time.Now()
	a := NewUpdate(session, "u1", UpdatePositionalMove, []byte(`{"x":1}`), now)
	b := NewUpdate(session, "u2", UpdatePositionalMove, []byte(`{"x":2}`), now)

	conflict := NewConflict(session, []Update{a, b}, now)
	require.False(t, conflict.Resolved())

	resolvedAt := now.Add(time.Second)
	conflict.Resolve(ResolutionAccept, "u1", resolvedAt)

	require.True(t, conflict.Resolved())
	require.Equal(t, ConflictAccepted, conflict.Status)
	require.Equal(t, "u1", conflict.ResolvedBy)
	require.Equal(t, resolvedAt, *conflict.ResolvedAt)
}

func TestResolution_Status(t *testing.T) {
	require.Equal(t, ConflictAccepted, ResolutionAccept.Status())
	require.Equal(t, ConflictRejected, ResolutionReject.Status())
	require.Equal(t, ConflictMerged, ResolutionMerge.Status())
	require.Equal(t, ConflictPending, Resolution("squash").Status())
	require.False(t, Resolution("squash").Known())
}

func TestConflict_Clone_IsolatesSlices(t *testing.T) {
	session := uuid.New()
	now := time.Now()
	a := NewUpdate(session, "u1", UpdatePositionalMove, []byte(`{"x":1}`), now)
	b := NewUpdate(session, "u2", UpdatePositionalMove, []byte(`{"x":2}`), now)

	conflict := NewConflict(session, []Update{a, b}, now)
	clone := conflict.Clone()
	clone.Implicate(NewUpdate(session, "u3", UpdatePositionalMove, []byte(`{"x":3}`), now))

	require.Len(t, conflict.UpdateIDs, 2)
	require.Len(t, clone.UpdateIDs, 3)
}
