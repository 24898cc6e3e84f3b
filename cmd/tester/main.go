// Command tester drives a full collaborative editing scenario against an
// in-process engine and prints what a connected participant would see.
// Useful for demos and for eyeballing broadcast behavior without wiring a
// frontend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"board-lab/auth"
	"board-lab/conflict"
	"board-lab/domain"
	"board-lab/observability"
	"board-lab/projection"
	"board-lab/runtime"
	"board-lab/services"
	"board-lab/sink"
	"board-lab/storage"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

const pipelineSettle = 400 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Scenario failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := logs.GetLoggerFromLevel(slog.LevelWarn)

	badgerDir, err := os.MkdirTemp("", "board-tester-badger-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(badgerDir)
	blugeDir, err := os.MkdirTemp("", "board-tester-bluge-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(blugeDir)

	db, err := badger.Open(badger.DefaultOptions(badgerDir).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return err
	}
	defer db.Close()
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(blugeDir))
	if err != nil {
		return err
	}
	defer blugeWriter.Close()

	sessions := storage.NewSessionStore(db, log)
	updates := storage.NewUpdateStore(db, log)
	conflicts := storage.NewConflictStore(db, log)
	index := storage.NewAnnotationIndex(blugeWriter, log, 10)
	registry := runtime.NewRegistry()
	stats := observability.NewStatsManager(log)

	engine := runtime.NewEngine(log, runtime.Options{
		SinkTimeout:   2 * time.Second,
		SuppressEcho:  true,
		CensoredWords: []string{"ambush"},
	}, sessions, updates, conflicts, registry,
		auth.NewRosterAuthorizer(sessions, log), conflict.PayloadEntityMatcher(), stats)

	timeline := projection.NewTimeline(0)
	searchSink := sink.NewSearchSink(index, log, 4, 200*time.Millisecond)
	engine.Add(timeline, searchSink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = engine.Start(ctx) }()
	defer engine.Stop()

	service := services.NewSessionService(engine, auth.NewIssuer("tester-secret", time.Hour), index, log)
	transport := sink.NewChannelTransport(64)

	step("1. Alice opens a session on map-alpha")
	session, err := service.CreateSession(ctx, domain.CreateSessionCommand{
		DocumentID: "map-alpha", OwnerID: "alice", OwnerName: "Alice",
	})
	if err != nil {
		return err
	}
	fmt.Printf("session %s created, owner admitted\n", session.ID)

	step("2. Bob and Carol join with live streams")
	bob, err := service.Join(ctx, domain.JoinSessionCommand{
		SessionID: session.ID, UserID: "bob", DisplayName: "Bob", Role: domain.RoleEditor,
	}, sink.NewStreamSink("bob", transport, log))
	if err != nil {
		return err
	}
	fmt.Printf("bob holds capability token %s...\n", bob.Token[:24])
	if _, err = service.Join(ctx, domain.JoinSessionCommand{
		SessionID: session.ID, UserID: "carol", DisplayName: "Carol", Role: domain.RoleViewer,
	}, sink.NewStreamSink("carol", transport, log)); err != nil {
		return err
	}

	step("3. Cursors move, presence snapshots follow")
	_ = service.MoveCursor(domain.MoveCursorCommand{SessionID: session.ID, UserID: "alice", X: 10, Y: 40})
	_ = service.MoveCursor(domain.MoveCursorCommand{SessionID: session.ID, UserID: "bob", X: 55.5, Y: 12})
	printPresence(service.Presence(session.ID))

	step("4. Alice and Bob move player-7 at the same time")
	if _, err = service.AppendUpdate(ctx, domain.AppendUpdateCommand{
		SessionID: session.ID, AuthorID: "alice", Type: domain.UpdatePositionalMove,
		Payload: []byte(`{"entityId":"player-7","x":30,"y":20}`),
	}); err != nil {
		return err
	}
	if _, err = service.AppendUpdate(ctx, domain.AppendUpdateCommand{
		SessionID: session.ID, AuthorID: "bob", Type: domain.UpdatePositionalMove,
		Payload: []byte(`{"entityId":"player-7","x":80,"y":65}`),
	}); err != nil {
		return err
	}
	time.Sleep(pipelineSettle)

	pending, err := service.PendingConflicts(ctx, session.ID)
	if err != nil {
		return err
	}
	printConflicts(pending)
	if len(pending) == 0 {
		return fmt.Errorf("expected a conflict on player-7, detector stayed silent")
	}

	step("5. Alice merges the conflict with a compromise position")
	resolved, err := service.Resolve(ctx, domain.ResolveConflictCommand{
		SessionID:     session.ID,
		ConflictID:    pending[0].ID,
		Resolution:    domain.ResolutionMerge,
		ResolvedBy:    "alice",
		MergedPayload: []byte(`{"entityId":"player-7","x":55,"y":42}`),
	})
	if err != nil {
		return err
	}
	fmt.Printf("conflict %s is now %s\n", resolved.ID, resolved.Status)

	step("6. Bob annotates with a word the moderator masks")
	if _, err = service.AppendUpdate(ctx, domain.AppendUpdateCommand{
		SessionID: session.ID, AuthorID: "bob", Type: domain.UpdateAnnotation,
		Payload: []byte(`{"entityId":"zone-north","text":"ambush at the north gate"}`),
	}); err != nil {
		return err
	}
	time.Sleep(pipelineSettle)

	step("7. What Carol's stream delivered (echo-suppressed, masked)")
	printFrames(drainFrames(transport.Stream("carol")))

	step("8. Durable history keeps the authored payloads")
	history, err := service.UpdatesSince(ctx, session.ID, 0, 100)
	if err != nil {
		return err
	}
	printUpdates(history)

	step("9. Annotation search catches up after the next flush")
	hits := awaitSearch(ctx, service, session.ID, "gate")
	for _, hit := range hits {
		fmt.Printf("seq %d by %s: %s\n", hit.Sequence, hit.AuthorID, hit.Text)
	}

	step("10. Alice ends the session")
	if err = service.EndSession(ctx, domain.EndSessionCommand{SessionID: session.ID, ActorID: "alice"}); err != nil {
		return err
	}
	time.Sleep(pipelineSettle)
	printTimeline(timeline.Entries(session.ID))

	return nil
}

func step(title string) {
	fmt.Println()
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render("  ====== " + title + " ======"))
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func printPresence(presence []domain.Presence) {
	table := newTable([]string{"User", "Role", "Cursor", "Last seen"})
	for _, p := range presence {
		cursor := "-"
		if p.Cursor != nil {
			cursor = fmt.Sprintf("(%.1f, %.1f)", p.Cursor.X, p.Cursor.Y)
		}
		table.Append([]string{p.DisplayName, string(p.Role), cursor, p.LastSeen.Format("15:04:05")})
	}
	table.Render()
}

func printConflicts(pending []domain.Conflict) {
	table := newTable([]string{"Conflict", "Status", "Updates", "Participants"})
	for _, c := range pending {
		table.Append([]string{
			c.ID.String()[:8],
			string(c.Status),
			fmt.Sprintf("%d", len(c.UpdateIDs)),
			fmt.Sprintf("%v", c.ParticipantIDs),
		})
	}
	table.Render()
}

func printUpdates(history []domain.Update) {
	table := newTable([]string{"Seq", "Author", "Type", "Applied", "Payload"})
	for _, u := range history {
		table.Append([]string{
			fmt.Sprintf("%d", u.Sequence),
			u.AuthorID,
			string(u.Type),
			fmt.Sprintf("%t", u.Applied()),
			string(u.Payload),
		})
	}
	table.Render()
}

func printFrames(frames []sink.Frame) {
	table := newTable([]string{"Frame", "Body"})
	for _, f := range frames {
		table.Append([]string{f.Type, string(f.Body)})
	}
	table.Render()
}

func printTimeline(entries []projection.Entry) {
	table := newTable([]string{"Kind", "Actor", "Seq", "Detail"})
	for _, e := range entries {
		seq := ""
		if e.Sequence > 0 {
			seq = fmt.Sprintf("%d", e.Sequence)
		}
		table.Append([]string{e.Kind, e.Actor, seq, e.Detail})
	}
	table.Render()
}

// drainFrames empties a stream, stopping once it stays quiet briefly.
func drainFrames(stream <-chan []byte) []sink.Frame {
	var frames []sink.Frame
	for {
		select {
		case raw := <-stream:
			var frame sink.Frame
			if err := json.Unmarshal(raw, &frame); err == nil {
				frames = append(frames, frame)
			}
		case <-time.After(300 * time.Millisecond):
			return frames
		}
	}
}

// awaitSearch polls until the search sink's batch flush makes the
// annotation visible.
func awaitSearch(ctx context.Context, service services.ISessionService, sessionID uuid.UUID, terms string) []storage.AnnotationHit {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		hits, _, err := service.SearchAnnotations(ctx, sessionID, terms, 0)
		if err == nil && len(hits) > 0 {
			return hits
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

