package storage

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"board-lab/domain"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/index"
	"github.com/google/uuid"
)

// AnnotationHit is one full-text search result over annotation updates.
type AnnotationHit struct {
	UpdateID  uuid.UUID
	SessionID uuid.UUID
	AuthorID  string
	Sequence  uint64
	Text      string
}

// AnnotationIndex makes annotation updates searchable with Bluge. Badger
// stays the source of truth; the index holds only what search results
// need to display. Sessions act as isolation buckets so one session never
// sees another's annotations.
type AnnotationIndex struct {
	mu       sync.Mutex
	writer   *bluge.Writer
	log      *slog.Logger
	batch    *index.Batch
	pageSize int
}

func NewAnnotationIndex(writer *bluge.Writer, log *slog.Logger, pageSize int) *AnnotationIndex {
	return &AnnotationIndex{
		writer:   writer,
		log:      log,
		batch:    index.NewBatch(),
		pageSize: pageSize,
	}
}

// Index queues an annotation update for the next Flush. Updates without
// readable text are skipped.
func (x *AnnotationIndex) Index(u domain.Update) {
	text, ok := domain.AnnotationText(u.Payload)
	if !ok {
		x.log.Debug("annotation without readable text skipped", "update_id", u.ID)
		return
	}
	doc := bluge.NewDocument(u.ID.String()).
		AddField(bluge.NewKeywordField("session", u.SessionID.String()).StoreValue()).
		AddField(bluge.NewKeywordField("author", u.AuthorID).StoreValue()).
		AddField(bluge.NewKeywordField("sequence", strconv.FormatUint(u.Sequence, 10)).StoreValue()).
		AddField(bluge.NewTextField("text", text).StoreValue())

	x.mu.Lock()
	defer x.mu.Unlock()
	x.batch.Update(doc.ID(), doc)
}

// Flush commits the queued documents. Idempotent: flushing an empty batch
// is a no-op.
func (x *AnnotationIndex) Flush() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.writer.Batch(x.batch); err != nil {
		return err
	}
	x.batch.Reset()
	return nil
}

// Search runs a case-insensitive match query over one session's
// annotations, paginated by offset. Returns the hits and the total match
// count.
func (x *AnnotationIndex) Search(ctx context.Context, sessionID uuid.UUID, terms string, offset int) ([]AnnotationHit, uint64, error) {
	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("text")).
		AddMust(bluge.NewTermQuery(sessionID.String()).SetField("session"))

	request := bluge.NewTopNSearch(x.pageSize, query).
		SetFrom(offset).
		WithStandardAggregations()

	reader, err := x.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var hits []AnnotationHit
	match, err := iterator.Next()
	for err == nil && match != nil {
		hit := AnnotationHit{SessionID: sessionID}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					hit.UpdateID = id
				}
			case "author":
				hit.AuthorID = string(value)
			case "sequence":
				if seq, parseErr := strconv.ParseUint(string(value), 10, 64); parseErr == nil {
					hit.Sequence = seq
				}
			case "text":
				hit.Text = string(value)
			}
			return true
		})
		if visitErr != nil {
			return nil, 0, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, 0, err
	}
	return hits, iterator.Aggregations().Count(), nil
}
