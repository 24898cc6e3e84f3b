package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"board-lab/domain"
	"board-lab/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	flag.Parse()

	fmt.Println("🚀 Board-Lab : Génération d'une session de démo...")

	opts := badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		panic(fmt.Sprintf("Impossible d'ouvrir Badger : %v", err))
	}
	defer db.Close()

	logger := logs.GetLoggerFromLevel(slog.LevelWarn)
	sessions := storage.NewSessionStore(db, logger)
	updates := storage.NewUpdateStore(db, logger)
	conflicts := storage.NewConflictStore(db, logger)

	ctx := context.Background()
	base := time.Now().Add(-10 * time.Minute).UTC()

	// 1. Une session avec un roster complet (owner, editor, viewer)
	session := seedSession(ctx, sessions, base)
	fmt.Printf("📋 Session créée : %s (doc=%s)\n", session.ID, session.DocumentID)

	// 2. Un journal réaliste : déplacements, structure, consigne, annotation
	log := seedUpdates(ctx, updates, session.ID, base)
	fmt.Printf("✍️  %d updates ajoutées au journal\n", len(log))

	// 3. Un conflit résolu sur marker-2 (les updates 2 et 3 divergent)
	seedConflict(ctx, conflicts, session.ID, log)
	fmt.Println("⚔️  Conflit résolu (accept) sur marker-2")

	fmt.Println("\n✅ Prêt ! Tu peux maintenant lancer le Viewer ou tools/badger_inspect")
}

func seedSession(ctx context.Context, store *storage.SessionStore, base time.Time) *domain.Session {
	owner := domain.NewParticipant("alice", "Alice", domain.RoleOwner, base)
	session := domain.NewSession("demo-board", owner, base)
	session.Admit(domain.NewParticipant("bruno", "Bruno", domain.RoleEditor, base.Add(30*time.Second)))
	session.Admit(domain.NewParticipant("claire", "Claire", domain.RoleViewer, base.Add(time.Minute)))
	session.Touch(base.Add(4 * time.Minute))

	if err := store.Create(ctx, session); err != nil {
		panic(fmt.Sprintf("Impossible de créer la session : %v", err))
	}
	return session
}

func seedUpdates(ctx context.Context, store *storage.UpdateStore, sessionID uuid.UUID, base time.Time) []domain.Update {
	entries := []struct {
		author  string
		kind    domain.UpdateType
		payload string
		applied bool
	}{
		{"alice", domain.UpdatePositionalMove, `{"entityId":"marker-1","x":4,"y":9}`, false},
		{"alice", domain.UpdatePositionalMove, `{"entityId":"marker-2","x":10,"y":12}`, false},
		{"bruno", domain.UpdatePositionalMove, `{"entityId":"marker-2","x":31,"y":5}`, true},
		{"bruno", domain.UpdateStructuralChange, `{"entityId":"zone-7","op":"add-zone","w":6,"h":4}`, false},
		{"alice", domain.UpdateInstruction, `{"entityId":"squad-1","text":"hold the east ridge until relieved"}`, false},
		{"bruno", domain.UpdateAnnotation, `{"entityId":"marker-2","text":"watch the bridge crossing"}`, false},
		{"alice", domain.UpdatePositionalMove, `{"entityId":"marker-3","x":18,"y":22}`, false},
		{"bruno", domain.UpdatePositionalMove, `{"entityId":"marker-1","x":7,"y":14}`, false},
	}

	log := make([]domain.Update, 0, len(entries))
	for i, e := range entries {
		at := base.Add(time.Duration(i+1) * 20 * time.Second)
		u := domain.NewUpdate(sessionID, e.author, e.kind, []byte(e.payload), at)
		u.Sequence = uint64(i + 1)
		if e.applied {
			appliedAt := at.Add(45 * time.Second)
			u.AppliedAt = &appliedAt
		}
		if err := store.Append(ctx, &u); err != nil {
			panic(fmt.Sprintf("Impossible d'ajouter l'update %d : %v", i+1, err))
		}
		log = append(log, u)
	}
	return log
}

func seedConflict(ctx context.Context, store *storage.ConflictStore, sessionID uuid.UUID, log []domain.Update) {
	// Les updates seq 2 et 3 déplacent marker-2 en même temps
	detectedAt := log[2].SubmittedAt
	conflict := domain.NewConflict(sessionID, []domain.Update{log[1], log[2]}, detectedAt)
	conflict.Resolve(domain.ResolutionAccept, "alice", detectedAt.Add(45*time.Second))

	if err := store.Create(ctx, &conflict); err != nil {
		panic(fmt.Sprintf("Impossible de créer le conflit : %v", err))
	}
}
