package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/thirdeye/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const memoryCollection = "memories"

// searchWindow bounds how many recent records a substring search scans.
// Firestore has no LIKE operator, so matching happens client-side.
const searchWindow = 50

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client.
func (r *Firestore) Close() error {
	return r.client.Close()
}

type memoryDoc struct {
	ConversationID string    `firestore:"conversation_id"`
	Description    string    `firestore:"description"`
	Tag            string    `firestore:"tag"`
	MediaKey       string    `firestore:"media_key"`
	CreatedAt      time.Time `firestore:"created_at"`
}

func (r *Firestore) col() *firestore.CollectionRef {
	return r.client.Collection(memoryCollection)
}

func (r *Firestore) PutMemory(ctx context.Context, record *model.MemoryRecord) error {
	if record.ID == "" {
		record.ID = model.NewMemoryID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	doc := memoryDoc{
		ConversationID: string(record.ConversationID),
		Description:    record.Description,
		Tag:            record.Tag,
		MediaKey:       record.MediaKey,
		CreatedAt:      record.CreatedAt,
	}

	if _, err := r.col().Doc(string(record.ID)).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.New("memory record already exists", goerr.V("id", record.ID))
		}
		return goerr.Wrap(err, "failed to put memory record", goerr.V("id", record.ID))
	}

	return nil
}

func (r *Firestore) RecentMemories(ctx context.Context, id model.ConversationID, limit int) ([]*model.MemoryRecord, error) {
	iter := r.col().
		Where("conversation_id", "==", string(id)).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var records []*model.MemoryRecord
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory records", goerr.V("conversation", id))
		}

		var doc memoryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode memory record", goerr.V("doc", snap.Ref.ID))
		}

		records = append(records, &model.MemoryRecord{
			ID:             model.MemoryID(snap.Ref.ID),
			ConversationID: model.ConversationID(doc.ConversationID),
			Description:    doc.Description,
			Tag:            doc.Tag,
			MediaKey:       doc.MediaKey,
			CreatedAt:      doc.CreatedAt,
		})
	}

	return records, nil
}

func (r *Firestore) SearchMemories(ctx context.Context, id model.ConversationID, query string, limit int) ([]*model.MemoryRecord, error) {
	recent, err := r.RecentMemories(ctx, id, searchWindow)
	if err != nil {
		return nil, err
	}

	return filterMemories(recent, query, limit), nil
}

func (r *Firestore) ClearMemories(ctx context.Context, id model.ConversationID) error {
	iter := r.col().Where("conversation_id", "==", string(id)).Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate memory records for clear", goerr.V("conversation", id))
		}

		if _, err := bw.Delete(snap.Ref); err != nil {
			return goerr.Wrap(err, "failed to queue memory record deletion", goerr.V("doc", snap.Ref.ID))
		}
	}
	bw.End()

	return nil
}

// filterMemories keeps records whose tag or description contains query,
// preserving newest-first order.
func filterMemories(records []*model.MemoryRecord, query string, limit int) []*model.MemoryRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}

	var matched []*model.MemoryRecord
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Tag), needle) ||
			strings.Contains(strings.ToLower(rec.Description), needle) {
			matched = append(matched, rec)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched
}
