package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"board-lab/auth"
	"board-lab/conflict"
	"board-lab/internal"
	"board-lab/moderation"
	"board-lab/observability"
	"board-lab/projection"
	"board-lab/runtime"
	"board-lab/services"
	"board-lab/sink"
	"board-lab/storage"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Engine host terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the engine lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the background workers.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	censoredChar, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed before the function returns.
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Full-text index (Bluge)
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 4. Moderation dictionary: env words are merged into the durable list,
	// then the effective list is loaded back so restarts keep prior seeds.
	if words := internal.WordList(config.CensoredWords); len(words) > 0 {
		if err := moderation.SeedWords(db, words); err != nil {
			return exitRuntime, fmt.Errorf("seeding censored words: %w", err)
		}
	}
	censoredWords, err := moderation.LoadWords(db)
	if err != nil {
		return exitRuntime, fmt.Errorf("loading censored words: %w", err)
	}

	// 5. Storage gateways, presence registry, authorization
	sessions := storage.NewSessionStore(db, log)
	updates := storage.NewUpdateStore(db, log)
	conflicts := storage.NewConflictStore(db, log)
	index := storage.NewAnnotationIndex(blugeWriter, log, config.SearchPageSize)
	registry := runtime.NewRegistry()
	authorizer := auth.NewRosterAuthorizer(sessions, log)
	stats := observability.NewStatsManager(log)

	// 6. Engine assembly
	engine := runtime.NewEngine(log, runtime.Options{
		LaneCount:            config.LaneCount,
		Buffer:               config.BufferSize,
		ParallelSessions:     config.ParallelSessions,
		SinkTimeout:          config.SinkTimeout,
		SuppressEcho:         config.SuppressEcho,
		ConflictWindow:       config.ConflictWindow,
		ConflictDepth:        config.ConflictDepth,
		IdleGrace:            config.IdleGrace,
		ReapInterval:         config.ReapInterval,
		MetricInterval:       config.MetricInterval,
		LatencyThreshold:     config.LatencyThreshold,
		LowCapacityThreshold: config.LowCapacityThreshold,
		CensoredWords:        censoredWords,
		CensoredChar:         censoredChar,
	}, sessions, updates, conflicts, registry, authorizer, conflict.PayloadEntityMatcher(), stats)

	// 7. Permanent sinks: activity timeline and annotation search
	timeline := projection.NewTimeline(config.TimelineLimit)
	searchSink := sink.NewSearchSink(index, log, config.SearchBatchSize, config.SearchFlushInterval)
	engine.Add(timeline, searchSink)

	// 8. Service facade for in-process transports (kept alive by the host so
	// embedded frontends share one validated entry point)
	issuer := auth.NewIssuer(config.AuthSecret, config.AuthTokenDuration)
	service := services.NewSessionService(engine, issuer, index, log)

	// 9. Debug inspector
	debug := internal.NewDebugServer(db, log, internal.DefaultMapper, func() map[string]any {
		latest := stats.GetLatest()
		return map[string]any{
			"appends_per_sec":    fmt.Sprintf("%.1f", latest.AppendThroughput),
			"updates_recorded":   latest.UpdatesRecorded,
			"sessions_created":   latest.SessionsCreated,
			"sessions_ended":     latest.SessionsEnded,
			"sessions_reaped":    latest.SessionsReaped,
			"conflicts_detected": latest.ConflictsDetected,
			"conflicts_resolved": latest.ConflictsResolved,
			"events_delivered":   latest.EventsDelivered,
			"presence_writes":    latest.PresenceWrites,
			"alloc_mem_mb":       latest.AllocMemMb,
		}
	}, timeline, index)
	debug.Start(config.DebugPort)

	// 10. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go stats.Listen(ctx)

	// 11. Start the engine (blocks inside the supervisor until shutdown)
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting synchronization engine",
			"host", config.Host,
			"port", config.Port,
			"debug_port", config.DebugPort)
		if err := engine.Start(ctx); err != nil {
			errChan <- fmt.Errorf("engine error: %w", err)
		}
	}()

	// 12. Serve the session API for sidecar frontends
	apiErr := serveAPI(ctx, log, config, service)

	// 13. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return exitRuntime, err
	case err := <-apiErr:
		return exitRuntime, err
	}

	// 14. Final Cleanup
	engine.Stop()
	if err := searchSink.Flush(); err != nil {
		log.Warn("Final index flush failed", "error", err)
	}
	log.Info("Program stopped cleanly")

	return exitOK, nil
}
