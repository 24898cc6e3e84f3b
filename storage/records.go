package storage

import (
	"time"

	"board-lab/domain"

	"github.com/google/uuid"
)

// Disk records are the storage-layer representation of domain values,
// serialized as JSON. Times are stored as UnixNano so equality survives
// the round trip regardless of monotonic clock readings.

type diskParticipant struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JoinedAt    int64  `json:"joined_at"`
	LastSeen    int64  `json:"last_seen"`
}

type diskSession struct {
	ID           string                     `json:"id"`
	DocumentID   string                     `json:"document_id"`
	Participants map[string]diskParticipant `json:"participants"`
	StartedAt    int64                      `json:"started_at"`
	LastActivity int64                      `json:"last_activity"`
	IsActive     bool                       `json:"is_active"`
	Version      uint64                     `json:"version"`
}

type diskUpdate struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	AuthorID    string `json:"author_id"`
	Type        string `json:"type"`
	Payload     []byte `json:"payload"`
	Sequence    uint64 `json:"sequence"`
	SubmittedAt int64  `json:"submitted_at"`
	AppliedAt   *int64 `json:"applied_at,omitempty"`
	Version     uint64 `json:"version"`
}

type diskConflict struct {
	ID             string   `json:"id"`
	SessionID      string   `json:"session_id"`
	UpdateIDs      []string `json:"update_ids"`
	ParticipantIDs []string `json:"participant_ids"`
	DetectedAt     int64    `json:"detected_at"`
	Status         string   `json:"status"`
	ResolvedBy     string   `json:"resolved_by,omitempty"`
	ResolvedAt     *int64   `json:"resolved_at,omitempty"`
	Version        uint64   `json:"version"`
}

func fromSession(s *domain.Session) diskSession {
	participants := make(map[string]diskParticipant, len(s.Participants))
	for id, p := range s.Participants {
		participants[id] = diskParticipant{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Role:        string(p.Role),
			JoinedAt:    p.JoinedAt.UnixNano(),
			LastSeen:    p.LastSeen.UnixNano(),
		}
	}
	return diskSession{
		ID:           s.ID.String(),
		DocumentID:   s.DocumentID,
		Participants: participants,
		StartedAt:    s.StartedAt.UnixNano(),
		LastActivity: s.LastActivity.UnixNano(),
		IsActive:     s.IsActive,
		Version:      s.Version,
	}
}

func toSession(d diskSession) (*domain.Session, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	participants := make(map[string]domain.Participant, len(d.Participants))
	for userID, p := range d.Participants {
		participants[userID] = domain.Participant{
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Role:        domain.Role(p.Role),
			JoinedAt:    time.Unix(0, p.JoinedAt).UTC(),
			LastSeen:    time.Unix(0, p.LastSeen).UTC(),
		}
	}
	return &domain.Session{
		ID:           id,
		DocumentID:   d.DocumentID,
		Participants: participants,
		StartedAt:    time.Unix(0, d.StartedAt).UTC(),
		LastActivity: time.Unix(0, d.LastActivity).UTC(),
		IsActive:     d.IsActive,
		Version:      d.Version,
	}, nil
}

func fromUpdate(u *domain.Update) diskUpdate {
	d := diskUpdate{
		ID:          u.ID.String(),
		SessionID:   u.SessionID.String(),
		AuthorID:    u.AuthorID,
		Type:        string(u.Type),
		Payload:     u.Payload,
		Sequence:    u.Sequence,
		SubmittedAt: u.SubmittedAt.UnixNano(),
		Version:     u.Version,
	}
	if u.AppliedAt != nil {
		nano := u.AppliedAt.UnixNano()
		d.AppliedAt = &nano
	}
	return d
}

func toUpdate(d diskUpdate) (domain.Update, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Update{}, err
	}
	sessionID, err := uuid.Parse(d.SessionID)
	if err != nil {
		return domain.Update{}, err
	}
	u := domain.Update{
		ID:          id,
		SessionID:   sessionID,
		AuthorID:    d.AuthorID,
		Type:        domain.UpdateType(d.Type),
		Payload:     d.Payload,
		Sequence:    d.Sequence,
		SubmittedAt: time.Unix(0, d.SubmittedAt).UTC(),
		Version:     d.Version,
	}
	if d.AppliedAt != nil {
		at := time.Unix(0, *d.AppliedAt).UTC()
		u.AppliedAt = &at
	}
	return u, nil
}

func fromConflict(c *domain.Conflict) diskConflict {
	updateIDs := make([]string, 0, len(c.UpdateIDs))
	for _, id := range c.UpdateIDs {
		updateIDs = append(updateIDs, id.String())
	}
	d := diskConflict{
		ID:             c.ID.String(),
		SessionID:      c.SessionID.String(),
		UpdateIDs:      updateIDs,
		ParticipantIDs: append([]string(nil), c.ParticipantIDs...),
		DetectedAt:     c.DetectedAt.UnixNano(),
		Status:         string(c.Status),
		ResolvedBy:     c.ResolvedBy,
		Version:        c.Version,
	}
	if c.ResolvedAt != nil {
		nano := c.ResolvedAt.UnixNano()
		d.ResolvedAt = &nano
	}
	return d
}

func toConflict(d diskConflict) (*domain.Conflict, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	sessionID, err := uuid.Parse(d.SessionID)
	if err != nil {
		return nil, err
	}
	updateIDs := make([]uuid.UUID, 0, len(d.UpdateIDs))
	for _, raw := range d.UpdateIDs {
		updateID, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		updateIDs = append(updateIDs, updateID)
	}
	c := &domain.Conflict{
		ID:             id,
		SessionID:      sessionID,
		UpdateIDs:      updateIDs,
		ParticipantIDs: append([]string(nil), d.ParticipantIDs...),
		DetectedAt:     time.Unix(0, d.DetectedAt).UTC(),
		Status:         domain.ConflictStatus(d.Status),
		ResolvedBy:     d.ResolvedBy,
		Version:        d.Version,
	}
	if d.ResolvedAt != nil {
		at := time.Unix(0, *d.ResolvedAt).UTC()
		c.ResolvedAt = &at
	}
	return c, nil
}
