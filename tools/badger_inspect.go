package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Minimal mirrors of the storage records, just enough for display.
type sessionRow struct {
	ID           string `json:"id"`
	DocumentID   string `json:"document_id"`
	Participants map[string]struct {
		Role string `json:"role"`
	} `json:"participants"`
	StartedAt int64 `json:"started_at"`
	IsActive  bool  `json:"is_active"`
}

type updateRow struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	AuthorID    string `json:"author_id"`
	Type        string `json:"type"`
	Payload     []byte `json:"payload"`
	Sequence    uint64 `json:"sequence"`
	SubmittedAt int64  `json:"submitted_at"`
	AppliedAt   *int64 `json:"applied_at"`
}

type conflictRow struct {
	SessionID      string   `json:"session_id"`
	UpdateIDs      []string `json:"update_ids"`
	ParticipantIDs []string `json:"participant_ids"`
	DetectedAt     int64    `json:"detected_at"`
	Status         string   `json:"status"`
	ResolvedBy     string   `json:"resolved_by"`
}

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	// Par défaut on cherche "session:" pour éviter de percuter les index doc:
	prefix := flag.String("prefix", "session:", "Prefix to scan (session:, update:, conflict:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Time", "Session", "Actor", "Detail", "State"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Sécurité : on ignore explicitement les index secondaires
			if isIndexKey(rawKey) {
				continue
			}

			err := item.Value(func(v []byte) error {
				row, err := decode(rawKey, v)
				if err != nil {
					// Au lieu de stopper tout le script, on log l'erreur et on continue
					fmt.Printf("Error decoding key %s: %v\n", rawKey, err)
					return nil
				}
				table.Append(row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func decode(key string, value []byte) ([]string, error) {
	switch {
	case strings.HasPrefix(key, "session:"):
		var s sessionRow
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, err
		}
		owner := "-"
		for userID, p := range s.Participants {
			if p.Role == "owner" {
				owner = shortID(userID)
				break
			}
		}
		state := "ended"
		if s.IsActive {
			state = "active"
		}
		detail := fmt.Sprintf("doc=%s members=%d", s.DocumentID, len(s.Participants))
		return []string{key, "SESSION", clock(s.StartedAt), shortID(s.ID), owner, detail, state}, nil

	case strings.HasPrefix(key, "update:"):
		var u updateRow
		if err := json.Unmarshal(value, &u); err != nil {
			return nil, err
		}
		state := fmt.Sprintf("seq=%d pending", u.Sequence)
		if u.AppliedAt != nil {
			state = fmt.Sprintf("seq=%d applied", u.Sequence)
		}
		return []string{key, kindOf(u.Type), clock(u.SubmittedAt), shortID(u.SessionID), shortID(u.AuthorID), preview(u.Payload), state}, nil

	case strings.HasPrefix(key, "conflict:"):
		var c conflictRow
		if err := json.Unmarshal(value, &c); err != nil {
			return nil, err
		}
		actor := c.ResolvedBy
		if actor == "" {
			actor = "-"
		}
		detail := fmt.Sprintf("%d updates by %d authors", len(c.UpdateIDs), len(c.ParticipantIDs))
		return []string{key, "CONFLICT", clock(c.DetectedAt), shortID(c.SessionID), shortID(actor), detail, c.Status}, nil
	}
	return nil, fmt.Errorf("unknown record family")
}

func isIndexKey(key string) bool {
	return strings.HasPrefix(key, "doc:") ||
		strings.HasPrefix(key, "update_id:") ||
		strings.HasPrefix(key, "conflict_session:")
}

func kindOf(updateType string) string {
	switch updateType {
	case "positional-move":
		return "MOVE"
	case "structural-change":
		return "STRUCT"
	case "annotation":
		return "NOTE"
	case "instruction":
		return "ORDER"
	}
	return strings.ToUpper(updateType)
}

func clock(unixNano int64) string {
	return time.Unix(0, unixNano).Format("15:04:05")
}

// On affiche les 8 premiers caractères pour la lisibilité
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func preview(payload []byte) string {
	flat := strings.Join(strings.Fields(string(payload)), " ")
	if len(flat) > 48 {
		return flat[:48] + "…"
	}
	return flat
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// Si corruption détectée, essaie un open en write pour truncate
		if strings.Contains(err.Error(), "Log truncate required") {
			fmt.Println("⚠️  Value log needs a truncate, reopening in write mode")

			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			// Ferme et réouvre en read-only
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
