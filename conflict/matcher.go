// Package conflict detects divergent concurrent updates inside a bounded
// recent window and applies resolution policies picked by moderators.
package conflict

import (
	"encoding/json"

	"board-lab/contract"
	"board-lab/domain"
)

// documentEntity is the identity of whole-document edits. Two structural
// changes always compete even when neither names an element.
const documentEntity = "__document__"

// PayloadEntityMatcher resolves entity identity from the update payload.
// Payloads naming the same element via "entityId" target the same entity;
// structural changes without one target the document itself. Updates whose
// payload names nothing never conflict.
func PayloadEntityMatcher() contract.EntityMatcher {
	return contract.EntityMatcherFunc(func(a, b domain.Update) bool {
		ka := entityKey(a)
		return ka != "" && ka == entityKey(b)
	})
}

func entityKey(u domain.Update) string {
	var body struct {
		EntityID string `json:"entityId"`
	}
	// Unreadable payloads are opaque blobs, not conflict candidates.
	_ = json.Unmarshal(u.Payload, &body)
	if body.EntityID != "" {
		return body.EntityID
	}
	if u.Type == domain.UpdateStructuralChange {
		return documentEntity
	}
	return ""
}
