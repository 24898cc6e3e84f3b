package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"

	"board-lab/contract"
	"board-lab/domain"
	"board-lab/domain/event"
	"board-lab/moderation"
)

// ModerationWorker sits between the engine and the fanout. Annotation
// broadcasts pass through the censoring automaton; every other event is
// forwarded untouched. The durable payload is never rewritten, masking
// applies to the broadcast copy only.
type ModerationWorker struct {
	moderator *moderation.Moderator // nil disables masking
	raw       <-chan event.DomainEvent
	sanitized chan<- event.DomainEvent
	telemetry chan<- event.Event
	log       *slog.Logger
}

var _ contract.Worker = (*ModerationWorker)(nil)

func NewModerationWorker(moderator *moderation.Moderator,
	raw <-chan event.DomainEvent, sanitized chan<- event.DomainEvent,
	telemetry chan<- event.Event, log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{
		moderator: moderator,
		raw:       raw,
		sanitized: sanitized,
		telemetry: telemetry,
		log:       log,
	}
}

func (w *ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return nil
		case e, ok := <-w.raw:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			select {
			case <-ctx.Done():
				w.log.Debug("Stopping worker")
				return nil
			case w.sanitized <- w.sanitize(e):
			}
		}
	}
}

// sanitize masks annotation text when the automaton is armed. Non-annotation
// events and unreadable payloads pass through verbatim.
func (w *ModerationWorker) sanitize(e event.DomainEvent) event.DomainEvent {
	if w.moderator == nil {
		return e
	}
	applied, ok := e.(event.UpdateApplied)
	if !ok || applied.Update.Type != domain.UpdateAnnotation {
		return e
	}
	text, ok := domain.AnnotationText(applied.Update.Payload)
	if !ok {
		return e
	}

	info := whatlanggo.Detect(text)
	w.log.Debug("Annotation inspected",
		"session_id", applied.SessionID,
		"sequence", applied.Update.Sequence,
		"lang", info.Lang.Iso6391())

	masked, found := w.moderator.Censor(text)
	if found == nil {
		return e
	}

	payload, err := domain.MaskAnnotationText(applied.Update.Payload, masked)
	if err != nil {
		w.log.Warn("Masking failed, forwarding original annotation",
			"session_id", applied.SessionID,
			"sequence", applied.Update.Sequence,
			"error", err)
		return e
	}

	for _, word := range found {
		w.reportHit(applied.SessionID, word)
	}
	w.log.Info("Annotation censored",
		"session_id", applied.SessionID,
		"sequence", applied.Update.Sequence,
		"author", applied.Update.AuthorID,
		"words", len(found))

	applied.Update.Payload = payload
	return applied
}

func (w *ModerationWorker) reportHit(sessionID uuid.UUID, word string) {
	select {
	case w.telemetry <- event.Event{
		Type:      event.CensorshipHitType,
		CreatedAt: time.Now().UTC(),
		Payload:   event.Censored{SessionID: sessionID, Word: word},
	}:
	default:
		w.log.Debug("Observability telemetry event lost")
	}
}
