package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"board-lab/projection"
	"board-lab/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

//go:embed inspect.html
var templatesFS embed.FS

var (
	resumeChan  = make(chan struct{}, 1)
	currentPort int
)

type InspectRow struct {
	Key      string
	Type     string
	Session  string
	Author   string
	Sequence string
	Detail   string
	When     string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// DebugServer exposes the engine's internals on a side port: raw badger
// rows, live counters, per-session timelines and annotation search. Not
// meant to face anything but an operator's browser.
type DebugServer struct {
	db       *badger.DB
	log      *slog.Logger
	mapper   RowMapper
	stats    StatsProvider
	timeline *projection.Timeline
	index    *storage.AnnotationIndex
}

func NewDebugServer(db *badger.DB, log *slog.Logger, mapper RowMapper, stats StatsProvider,
	timeline *projection.Timeline, index *storage.AnnotationIndex) *DebugServer {
	if mapper == nil {
		mapper = DefaultMapper
	}
	return &DebugServer{
		db:       db,
		log:      log,
		mapper:   mapper,
		stats:    stats,
		timeline: timeline,
		index:    index,
	}
}

func (s *DebugServer) Start(port int) {
	currentPort = port
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	mux.HandleFunc("/inspect", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "session:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if s.stats != nil {
			data.Stats = s.stats()
		}

		_ = s.db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, s.mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		if s.stats == nil {
			http.Error(w, "no stats provider wired", http.StatusNotFound)
			return
		}
		writeJSON(w, s.stats())
	})

	mux.HandleFunc("/timeline", func(w http.ResponseWriter, r *http.Request) {
		if s.timeline == nil {
			http.Error(w, "no timeline wired", http.StatusNotFound)
			return
		}
		sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
		if err != nil {
			http.Error(w, "session must be a uuid", http.StatusBadRequest)
			return
		}
		writeJSON(w, s.timeline.Entries(sessionID))
	})

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if s.index == nil {
			http.Error(w, "no search index wired", http.StatusNotFound)
			return
		}
		sessionID, err := uuid.Parse(r.URL.Query().Get("session"))
		if err != nil {
			http.Error(w, "session must be a uuid", http.StatusBadRequest)
			return
		}
		terms := r.URL.Query().Get("q")
		if terms == "" {
			http.Error(w, "q must not be empty", http.StatusBadRequest)
			return
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		hits, total, err := s.index.Search(r.Context(), sessionID, terms, offset)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"total": total, "hits": hits})
	})

	mux.HandleFunc("/resume", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-resumeChan:
		default:
		}
		resumeChan <- struct{}{}
		fmt.Fprint(w, "RESUMED")
	})

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%d", port)
		s.log.Info("Debug server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			s.log.Warn("Debug server stopped", "error", err)
		}
	}()
}

// Wait blocks until someone hits /resume. Used by the inspect tool to
// keep a snapshot browsable.
func Wait(prefix string) {
	url := fmt.Sprintf("http://localhost:%d/inspect?prefix=%s", currentPort, prefix)
	fmt.Printf("\n--- INSPECTOR PAUSED ---\n\n%s\n\n------------------------\n", url)
	<-resumeChan
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(payload)
}

// DefaultMapper renders engine records using the storage key layout:
// session:{id}, doc:{document}:{id}, update:{session}:{seq},
// update_id:{id}, conflict:{id}, conflict_session:{session}:{ts}:{id}.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:    key,
		Type:   "RAW",
		Detail: "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	var fields map[string]any
	decoded := json.Unmarshal(val, &fields) == nil

	switch {
	case strings.HasPrefix(key, "session:"):
		row.Type = "SESSION"
		row.Session = shorten(strings.TrimPrefix(key, "session:"))
		if decoded {
			row.Detail = fmt.Sprintf("document=%v active=%v participants=%d",
				fields["document_id"], fields["is_active"], countOf(fields["participants"]))
			row.When = nanoField(fields, "last_activity")
		}
	case strings.HasPrefix(key, "doc:"):
		row.Type = "DOC-INDEX"
		parts := strings.Split(strings.TrimPrefix(key, "doc:"), ":")
		if len(parts) == 2 {
			row.Detail = "document=" + parts[0]
			row.Session = shorten(parts[1])
		}
	case strings.HasPrefix(key, "update_id:"):
		row.Type = "UPDATE-ID"
		row.Detail = "points at " + shorten(string(val))
	case strings.HasPrefix(key, "update:"):
		row.Type = "UPDATE"
		parts := strings.Split(strings.TrimPrefix(key, "update:"), ":")
		if len(parts) == 2 {
			row.Session = shorten(parts[0])
			row.Sequence = strings.TrimLeft(parts[1], "0")
		}
		if decoded {
			row.Author = fmt.Sprintf("%v", fields["author_id"])
			row.Detail = fmt.Sprintf("type=%v", fields["type"])
			row.When = nanoField(fields, "submitted_at")
		}
	case strings.HasPrefix(key, "conflict_session:"):
		row.Type = "CONFLICT-IDX"
		parts := strings.Split(strings.TrimPrefix(key, "conflict_session:"), ":")
		if len(parts) == 3 {
			row.Session = shorten(parts[0])
			if tsNano, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				row.When = time.Unix(0, tsNano).Format("15:04:05")
			}
		}
	case strings.HasPrefix(key, "conflict:"):
		row.Type = "CONFLICT"
		if decoded {
			row.Session = shorten(fmt.Sprintf("%v", fields["session_id"]))
			row.Detail = fmt.Sprintf("status=%v updates=%d", fields["status"], countOf(fields["update_ids"]))
			row.When = nanoField(fields, "detected_at")
		}
	}
	return row
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func countOf(v any) int {
	switch typed := v.(type) {
	case []any:
		return len(typed)
	case map[string]any:
		return len(typed)
	}
	return 0
}

func nanoField(fields map[string]any, name string) string {
	num, ok := fields[name].(float64)
	if !ok {
		return ""
	}
	return time.Unix(0, int64(num)).Format("15:04:05")
}
