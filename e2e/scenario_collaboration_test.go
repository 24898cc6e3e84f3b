package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/errors"
	"board-lab/projection"
	"board-lab/services"
)

type testCollaborationSuite struct {
	BaseEngineSuite
}

func TestCollaborationSuite(t *testing.T) {
	suite.Run(t, &testCollaborationSuite{})
}

func (s *testCollaborationSuite) TestFullCollaborativeEditingFlow() {
	var (
		sessionID     uuid.UUID
		bobToken      string
		earlyID       uuid.UUID
		lateID        uuid.UUID
		conflictID    uuid.UUID
		annotationID  uuid.UUID
		annotationSeq uint64
	)

	carolStream := s.Transport.Stream("carol")
	daveStream := s.Transport.Stream("dave")

	// --- STEP 0: SESSION BOOTSTRAP ---
	s.Run("Step 0: Create a session and list it for the document", func() {
		s.WithService("Alice opens doc-alpha", func(ctx context.Context, svc services.ISessionService) {
			session, err := svc.CreateSession(ctx, domain.CreateSessionCommand{
				DocumentID: "doc-alpha",
				OwnerID:    "u1",
				OwnerName:  "Alice",
			})
			s.Require().NoError(err)
			sessionID = session.ID

			active, err := svc.Sessions(ctx, "doc-alpha")
			s.Require().NoError(err)
			s.Require().Len(active, 1, "Exactly one active session expected per document")
			s.Require().Equal(sessionID, active[0].ID)
			owner, ok := active[0].Participant("u1")
			s.Require().True(ok, "Creator missing from the roster")
			s.Require().Equal(domain.RoleOwner, owner.Role)

			// a second session on the same document must be refused
			_, err = svc.CreateSession(ctx, domain.CreateSessionCommand{
				DocumentID: "doc-alpha",
				OwnerID:    "u9",
				OwnerName:  "Imposter",
			})
			s.Require().True(errors.IsAlreadyActive(err),
				"Second session on a busy document must fail, got: %v", err)
		})
	})

	// --- STEP 1: LIVE MEMBERSHIP ---
	s.Run("Step 1: Bob and Carol join with live streams", func() {
		s.WithService("Editors connect", func(ctx context.Context, svc services.ISessionService) {
			bob, err := svc.Join(ctx, domain.JoinSessionCommand{
				SessionID:   sessionID,
				UserID:      "bob",
				DisplayName: "Bob",
				Role:        domain.RoleEditor,
			}, s.StreamFor("bob"))
			s.Require().NoError(err)
			s.Require().NotEmpty(bob.Token, "Join must hand back a capability token")
			bobToken = bob.Token

			_, err = svc.Join(ctx, domain.JoinSessionCommand{
				SessionID:   sessionID,
				UserID:      "carol",
				DisplayName: "Carol",
				Role:        domain.RoleViewer,
			}, s.StreamFor("carol"))
			s.Require().NoError(err)

			// cursor writes are ephemeral and last-write-wins
			s.Require().NoError(svc.MoveCursor(domain.MoveCursorCommand{
				SessionID: sessionID, UserID: "bob", X: 12, Y: 8,
			}))
			s.Require().NoError(svc.MoveCursor(domain.MoveCursorCommand{
				SessionID: sessionID, UserID: "bob", X: 30, Y: 16,
			}))

			presence := svc.Presence(sessionID)
			s.Require().Len(presence, 3)
			byUser := indexPresence(presence)
			s.Require().Equal(domain.RoleOwner, byUser["u1"].Role)
			s.Require().Nil(byUser["u1"].Cursor, "Alice never connected a stream, she has no cursor")
			s.Require().NotNil(byUser["bob"].Cursor)
			s.Require().Equal(30.0, byUser["bob"].Cursor.X)
			s.Require().Equal(16.0, byUser["bob"].Cursor.Y)
		})

		// Drain roster notices until Carol sees her own admission. Nothing
		// but membership traffic may precede the first update broadcast.
		for {
			frame := s.NextFrame(carolStream)
			s.Require().Equal(event.KindParticipantJoined, frame.Type,
				"Protocol error: %s frame before any update was appended", frame.Type)
			var body event.ParticipantJoined
			s.Require().NoError(json.Unmarshal(frame.Body, &body))
			if body.UserID == "carol" {
				s.Require().Equal(domain.RoleViewer, body.Role)
				break
			}
		}
	})

	// --- STEP 2: DIVERGENT CONCURRENT EDITS ---
	s.Run("Step 2: Concurrent divergent moves raise exactly one conflict", func() {
		s.WithService("Alice and Bob fight over player-7", func(ctx context.Context, svc services.ISessionService) {
			early, err := svc.AppendUpdate(ctx, domain.AppendUpdateCommand{
				SessionID: sessionID,
				AuthorID:  "u1",
				Type:      domain.UpdatePositionalMove,
				Payload:   []byte(`{"entityId":"player-7","x":10,"y":20}`),
			})
			s.Require().NoError(err)
			s.Require().Equal(uint64(1), early.Sequence)
			earlyID = early.ID

			late, err := svc.AppendUpdate(ctx, domain.AppendUpdateCommand{
				SessionID: sessionID,
				AuthorID:  "bob",
				Type:      domain.UpdatePositionalMove,
				Payload:   []byte(`{"entityId":"player-7","x":55,"y":42}`),
			})
			s.Require().NoError(err)
			s.Require().Equal(uint64(2), late.Sequence)
			lateID = late.ID

			pending, err := svc.PendingConflicts(ctx, sessionID)
			s.Require().NoError(err)
			s.Require().Len(pending, 1, "Divergent concurrent edits of one entity must yield exactly one conflict")
			s.Require().ElementsMatch([]uuid.UUID{earlyID, lateID}, pending[0].UpdateIDs)
			s.Require().ElementsMatch([]string{"u1", "bob"}, pending[0].ParticipantIDs)
			s.Require().Equal(domain.ConflictPending, pending[0].Status)
			conflictID = pending[0].ID
		})
	})

	// --- STEP 3: RESOLUTION ---
	s.Run("Step 3: Accepting the conflict applies the later update only", func() {
		s.WithService("Alice accepts the later move", func(ctx context.Context, svc services.ISessionService) {
			resolved, err := svc.Resolve(ctx, domain.ResolveConflictCommand{
				SessionID:  sessionID,
				ConflictID: conflictID,
				Resolution: domain.ResolutionAccept,
				ResolvedBy: "u1",
			})
			s.Require().NoError(err)
			s.Require().Equal(domain.ConflictAccepted, resolved.Status)
			s.Require().Equal("u1", resolved.ResolvedBy)
			s.Require().NotNil(resolved.ResolvedAt)

			history, err := svc.UpdatesSince(ctx, sessionID, 0, 100)
			s.Require().NoError(err)
			s.Require().Len(history, 2)
			byID := indexUpdates(history)
			s.Require().Nil(byID[earlyID].AppliedAt, "The earlier divergent update must stay unapplied")
			s.Require().NotNil(byID[lateID].AppliedAt, "Accept must crown the latest implicated update")

			// a duplicate resolution request replays the terminal state
			replayed, err := svc.Resolve(ctx, domain.ResolveConflictCommand{
				SessionID:  sessionID,
				ConflictID: conflictID,
				Resolution: domain.ResolutionReject,
				ResolvedBy: "bob",
			})
			s.Require().NoError(err)
			s.Require().Equal(domain.ConflictAccepted, replayed.Status)
			s.Require().Equal("u1", replayed.ResolvedBy)

			pending, err := svc.PendingConflicts(ctx, sessionID)
			s.Require().NoError(err)
			s.Require().Empty(pending)
		})
	})

	// --- STEP 4: FILL THE LOG ---
	s.Run("Step 4: Editors fill the log to ten updates, viewers are refused", func() {
		s.WithService("The layout takes shape", func(ctx context.Context, svc services.ISessionService) {
			_, err := svc.AppendUpdate(ctx, domain.AppendUpdateCommand{
				SessionID: sessionID,
				AuthorID:  "carol",
				Type:      domain.UpdateAnnotation,
				Payload:   []byte(`{"text":"can I help"}`),
			})
			s.Require().True(errors.IsUnauthorized(err),
				"A viewer must not append updates, got: %v", err)

			appends := []struct {
				author  string
				kind    domain.UpdateType
				payload string
			}{
				{"bob", domain.UpdatePositionalMove, `{"entityId":"player-1","x":5,"y":5}`},
				{"u1", domain.UpdatePositionalMove, `{"entityId":"player-2","x":7,"y":3}`},
				{"bob", domain.UpdateStructuralChange, `{"entityId":"zone-4","kind":"add-barrier"}`},
				{"u1", domain.UpdateInstruction, `{"text":"hold the west corridor"}`},
				{"bob", domain.UpdateAnnotation, `{"text":"ambush at the ridge"}`},
				{"u1", domain.UpdatePositionalMove, `{"entityId":"player-3","x":1,"y":9}`},
				{"bob", domain.UpdatePositionalMove, `{"entityId":"player-4","x":2,"y":2}`},
				{"u1", domain.UpdatePositionalMove, `{"entityId":"player-5","x":6,"y":6}`},
			}
			next := uint64(3)
			for _, a := range appends {
				update, err := svc.AppendUpdate(ctx, domain.AppendUpdateCommand{
					SessionID: sessionID,
					AuthorID:  a.author,
					Type:      a.kind,
					Payload:   []byte(a.payload),
				})
				s.Require().NoError(err)
				s.Require().Equal(next, update.Sequence, "Sequences must stay gapless")
				if a.kind == domain.UpdateAnnotation {
					annotationID = update.ID
					annotationSeq = update.Sequence
				}
				next++
			}

			pending, err := svc.PendingConflicts(ctx, sessionID)
			s.Require().NoError(err)
			s.Require().Empty(pending, "Edits of distinct entities must not conflict")
		})
	})

	// --- STEP 5: CATCH-UP READ ---
	s.Run("Step 5: Catch-up returns sequences 6 through 10 in order", func() {
		s.WithService("A client resumes from sequence 5", func(ctx context.Context, svc services.ISessionService) {
			history, err := svc.UpdatesSince(ctx, sessionID, 5, 100)
			s.Require().NoError(err)
			s.Require().Len(history, 5)
			for i, u := range history {
				s.Require().Equal(uint64(6+i), u.Sequence, "Catch-up must be ascending and gapless")
			}

			// the limit caps the page, not the history
			page, err := svc.UpdatesSince(ctx, sessionID, 0, 3)
			s.Require().NoError(err)
			s.Require().Len(page, 3)
			s.Require().Equal(uint64(1), page[0].Sequence)
			s.Require().Equal(uint64(3), page[2].Sequence)

			// the stored annotation keeps the authored text, masking is
			// broadcast-only
			all, err := svc.UpdatesSince(ctx, sessionID, 0, 100)
			s.Require().NoError(err)
			stored := indexUpdates(all)[annotationID]
			s.Require().NotNil(stored)
			text, ok := domain.AnnotationText(stored.Payload)
			s.Require().True(ok)
			s.Require().Contains(text, "ambush", "History is evidence, the durable payload must stay as authored")
		})
	})

	// --- STEP 6: STREAM INTEGRITY ---
	s.Run("Step 6: Carol's stream replays the whole session in protocol order", func() {
		frames := s.CollectFrames(carolStream, 12)

		lastSeq := uint64(0)
		appliedCount := 0
		sawDetected := false
		sawResolved := false
		maskedSeen := false

		for _, frame := range frames {
			s.Require().Equal(sessionID, frame.SessionID)
			s.Require().False(frame.SentAt.IsZero())

			switch frame.Type {
			case event.KindUpdateApplied:
				var body event.UpdateApplied
				s.Require().NoError(json.Unmarshal(frame.Body, &body))
				seq := body.Update.Sequence
				s.Require().Greater(seq, lastSeq,
					"Protocol error: update frames must arrive in ascending sequence order")
				if seq >= 2 {
					s.Require().True(sawDetected,
						"Protocol error: the second divergent update arrived before its conflict notice")
				}
				lastSeq = seq
				appliedCount++

				if body.Update.Type == domain.UpdateAnnotation {
					text, ok := domain.AnnotationText(body.Update.Payload)
					s.Require().True(ok)
					s.Require().NotContains(text, "ambush", "A censored word leaked into a broadcast annotation")
					s.Require().Contains(text, "at the ridge", "Masking must keep the rest of the text intact")
					maskedSeen = true
				}

			case event.KindConflictDetected:
				s.Require().False(sawDetected, "Protocol error: conflict-detected received more than once")
				s.Require().False(sawResolved, "Protocol error: conflict-detected received after its resolution")
				var body event.ConflictDetected
				s.Require().NoError(json.Unmarshal(frame.Body, &body))
				s.Require().Len(body.Conflict.UpdateIDs, 2)
				sawDetected = true

			case event.KindConflictResolved:
				s.Require().True(sawDetected, "Protocol error: resolution received before detection")
				var body event.ConflictResolved
				s.Require().NoError(json.Unmarshal(frame.Body, &body))
				s.Require().Equal(domain.ConflictAccepted, body.Conflict.Status)
				sawResolved = true

			default:
				s.FailNowf("Unexpected frame in the update stream", "type=%s", frame.Type)
			}
		}

		s.Require().Equal(10, appliedCount, "The observer must see every broadcast update exactly once")
		s.Require().True(sawResolved, "Stream closed this phase without the resolution notice")
		s.Require().True(maskedSeen, "The censored annotation never reached the observer")
		s.T().Logf("Verified: %d update frames in sequence order, conflict notice and resolution interleaved correctly", appliedCount)
	})

	// --- STEP 7: CAPABILITY RE-JOIN AND PROMOTION ---
	s.Run("Step 7: Bob reconnects with his token, Carol gets promoted", func() {
		s.WithService("Reconnect and role change", func(ctx context.Context, svc services.ISessionService) {
			rejoined, err := svc.Rejoin(ctx, bobToken, s.StreamFor("bob"))
			s.Require().NoError(err)
			s.Require().Equal(sessionID, rejoined.Session.ID)
			member, ok := rejoined.Session.Participant("bob")
			s.Require().True(ok)
			s.Require().Equal(domain.RoleEditor, member.Role, "Re-join must keep the original role")
			s.Require().NotEmpty(rejoined.Token)

			err = svc.UpdatePermissions(ctx, domain.UpdatePermissionsCommand{
				SessionID: sessionID,
				ActorID:   "u1",
				TargetID:  "carol",
				Role:      domain.RoleEditor,
			})
			s.Require().NoError(err)

			byUser := indexPresence(svc.Presence(sessionID))
			s.Require().Equal(domain.RoleEditor, byUser["carol"].Role)
		})
	})

	// --- STEP 8: SEARCH VISIBILITY ---
	s.Run("Step 8: The annotation becomes searchable after the async flush", func() {
		s.Require().Eventually(func() bool {
			hits, total, err := s.Service.SearchAnnotations(context.Background(), sessionID, "ridge", 0)
			return err == nil && total == 1 && len(hits) == 1 && hits[0].UpdateID == annotationID
		}, s.Config.Settle, 100*time.Millisecond, "Annotation never became searchable")

		hits, total, err := s.Service.SearchAnnotations(context.Background(), sessionID, "ridge", 0)
		s.Require().NoError(err)
		s.Require().Equal(uint64(1), total)
		s.Require().Equal("bob", hits[0].AuthorID)
		s.Require().Equal(annotationSeq, hits[0].Sequence)
		s.Require().NotContains(hits[0].Text, "ambush", "The index holds the broadcast copy, masked")

		// the censored word itself is unsearchable
		_, total, err = s.Service.SearchAnnotations(context.Background(), sessionID, "ambush", 0)
		s.Require().NoError(err)
		s.Require().Zero(total)
	})

	// --- STEP 9: EMPTY ROSTER GRACE ---
	s.Run("Step 9: The roster empties and a newcomer still catches up", func() {
		s.WithService("Everyone walks away", func(ctx context.Context, svc services.ISessionService) {
			for _, userID := range []string{"bob", "carol", "u1"} {
				s.Require().NoError(svc.Leave(ctx, domain.LeaveSessionCommand{
					SessionID: sessionID, UserID: userID,
				}))
			}

			// wait for the last departure to clear the broadcast pipeline so
			// Dave's stream starts clean
			s.Require().Eventually(func() bool {
				return countKind(s.Timeline.Entries(sessionID), event.KindParticipantLeft) == 3
			}, s.Config.Settle, 50*time.Millisecond)

			active, err := svc.Sessions(ctx, "doc-alpha")
			s.Require().NoError(err)
			s.Require().Len(active, 1, "An emptied roster must not end the session inside the grace window")
			s.Require().True(active[0].IsActive)
			s.Require().Empty(active[0].Participants)

			dave, err := svc.Join(ctx, domain.JoinSessionCommand{
				SessionID:   sessionID,
				UserID:      "dave",
				DisplayName: "Dave",
				Role:        domain.RoleEditor,
			}, s.StreamFor("dave"))
			s.Require().NoError(err)
			s.Require().True(dave.Session.IsActive)

			// Dave's stream opens with his own admission notice
			frame := s.NextFrame(daveStream)
			s.Require().Equal(event.KindParticipantJoined, frame.Type)
			var joined event.ParticipantJoined
			s.Require().NoError(json.Unmarshal(frame.Body, &joined))
			s.Require().Equal("dave", joined.UserID)

			history, err := svc.UpdatesSince(ctx, sessionID, 0, 100)
			s.Require().NoError(err)
			s.Require().Len(history, 10, "A newcomer must be able to read the full prior history")
			s.Require().Equal(uint64(1), history[0].Sequence)
			s.Require().Equal(uint64(10), history[9].Sequence)
		})
	})

	// --- STEP 10: TERMINAL STATE ---
	s.Run("Step 10: The owner returns, ends the session, and history survives", func() {
		s.WithService("Alice closes doc-alpha", func(ctx context.Context, svc services.ISessionService) {
			_, err := svc.Join(ctx, domain.JoinSessionCommand{
				SessionID:   sessionID,
				UserID:      "u1",
				DisplayName: "Alice",
				Role:        domain.RoleOwner,
			}, nil)
			s.Require().NoError(err)

			s.Require().NoError(svc.EndSession(ctx, domain.EndSessionCommand{
				SessionID: sessionID, ActorID: "u1",
			}))

			// Dave's stream gets Alice's return and then the terminal notice
			frames := s.CollectFrames(daveStream, 2)
			s.Require().Equal(event.KindParticipantJoined, frames[0].Type)
			var joined event.ParticipantJoined
			s.Require().NoError(json.Unmarshal(frames[0].Body, &joined))
			s.Require().Equal("u1", joined.UserID)
			s.Require().Equal(event.KindSessionEnded, frames[1].Type,
				"session-ended must be the final broadcast")
			var ended event.SessionEnded
			s.Require().NoError(json.Unmarshal(frames[1].Body, &ended))
			s.Require().Equal("u1", ended.EndedBy)

			// an ended session is terminal for every mutating entry point
			err = svc.EndSession(ctx, domain.EndSessionCommand{SessionID: sessionID, ActorID: "u1"})
			s.Require().True(errors.IsNotFound(err), "Ending twice must report not found, got: %v", err)
			_, err = svc.AppendUpdate(ctx, domain.AppendUpdateCommand{
				SessionID: sessionID,
				AuthorID:  "u1",
				Type:      domain.UpdatePositionalMove,
				Payload:   []byte(`{"entityId":"player-1","x":0,"y":0}`),
			})
			s.Require().True(errors.IsNotFound(err), "Appending to an ended session must report not found, got: %v", err)
			_, err = svc.Rejoin(ctx, bobToken, nil)
			s.Require().True(errors.IsNotFound(err), "A stale capability token must not reopen an ended session, got: %v", err)

			active, err := svc.Sessions(ctx, "doc-alpha")
			s.Require().NoError(err)
			s.Require().Empty(active)

			// the catch-up read outlives the roster
			history, err := svc.UpdatesSince(ctx, sessionID, 0, 100)
			s.Require().NoError(err)
			s.Require().Len(history, 10)
		})

		// the timeline projection recorded the whole arc exactly once
		s.Require().Eventually(func() bool {
			return s.Timeline.Len(sessionID) == 23
		}, s.Config.Settle, 50*time.Millisecond, "Timeline never settled at the expected entry count")
		entries := s.Timeline.Entries(sessionID)
		s.Require().Equal(event.KindSessionEnded, entries[len(entries)-1].Kind)
		s.Require().Equal(10, countKind(entries, event.KindUpdateApplied),
			"Redelivered updates must be deduplicated in the read model")
		s.Dump("TIMELINE", entries)
	})
}

func indexPresence(presence []domain.Presence) map[string]domain.Presence {
	byUser := make(map[string]domain.Presence, len(presence))
	for _, p := range presence {
		byUser[p.UserID] = p
	}
	return byUser
}

func indexUpdates(updates []domain.Update) map[uuid.UUID]*domain.Update {
	byID := make(map[uuid.UUID]*domain.Update, len(updates))
	for i := range updates {
		byID[updates[i].ID] = &updates[i]
	}
	return byID
}

func countKind(entries []projection.Entry, kind string) int {
	n := 0
	for _, e := range entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
