package domain

import (
	"encoding/json"
	"strings"
)

// annotationBody is the conventional shape of annotation payloads. The
// engine treats payloads as opaque everywhere except here, where the
// moderation and search paths need the human-readable text.
type annotationBody struct {
	Text string `json:"text"`
	Note string `json:"note"`
}

// AnnotationText extracts the free text of an annotation payload.
// Returns false for payloads that carry no readable text.
func AnnotationText(payload []byte) (string, bool) {
	var body annotationBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}
	text := body.Text
	if text == "" {
		text = body.Note
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

// MaskAnnotationText rebuilds the payload with the masked text in place of
// the original, keeping every other field (entityId among them) untouched.
// The stored payload is never rewritten; this produces the broadcast copy.
func MaskAnnotationText(payload []byte, masked string) ([]byte, error) {
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, err
	}
	if text, ok := body["text"].(string); ok && strings.TrimSpace(text) != "" {
		body["text"] = masked
	} else {
		body["note"] = masked
	}
	return json.Marshal(body)
}
