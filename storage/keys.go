package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// Key layout. All engine records share one Badger instance, separated by
// prefixes chosen so that prefix scans return records already sorted:
//
//	session:{uuid}                               session record
//	doc:{document_id}:{session_uuid}             active-session index
//	update:{session_uuid}:{sequence_padded}      update record
//	update_id:{uuid}                             update primary-key index
//	conflict:{uuid}                              conflict record
//	conflict_session:{session}:{ts}:{uuid}       per-session conflict index
//
// Sequences use 12-digit zero padding so lexicographical order equals
// numeric order; timestamps use 19 digits to hold a full UnixNano.
const (
	sessionPrefix         = "session:"
	docIndexPrefix        = "doc:"
	updatePrefix          = "update:"
	updateIDPrefix        = "update_id:"
	conflictPrefix        = "conflict:"
	conflictSessionPrefix = "conflict_session:"
)

func sessionKey(id uuid.UUID) []byte {
	return []byte(sessionPrefix + id.String())
}

func docIndexKey(documentID string, sessionID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", docIndexPrefix, documentID, sessionID))
}

func docIndexScanPrefix(documentID string) []byte {
	return []byte(fmt.Sprintf("%s%s:", docIndexPrefix, documentID))
}

func updateKey(sessionID uuid.UUID, sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%012d", updatePrefix, sessionID, sequence))
}

func updateScanPrefix(sessionID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:", updatePrefix, sessionID))
}

func updateIDKey(id uuid.UUID) []byte {
	return []byte(updateIDPrefix + id.String())
}

func conflictKey(id uuid.UUID) []byte {
	return []byte(conflictPrefix + id.String())
}

func conflictSessionKey(sessionID uuid.UUID, detectedAtNano int64, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", conflictSessionPrefix, sessionID, detectedAtNano, id))
}

func conflictSessionScanPrefix(sessionID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:", conflictSessionPrefix, sessionID))
}
