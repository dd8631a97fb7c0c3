package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

// testConversation returns a unique conversation ID per test run so
// parallel CI runs do not see each other's records.
func testConversation() model.ConversationID {
	return model.ConversationID("whatsapp:test-" + uuid.New().String())
}

func TestFirestorePutAndRecent(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()
	cid := testConversation()
	t.Cleanup(func() { _ = repo.ClearMemories(ctx, cid) })

	base := time.Now()
	for i, tag := range []string{"Bike1", "Chintu"} {
		err := repo.PutMemory(ctx, &model.MemoryRecord{
			ConversationID: cid,
			Description:    "description of " + tag,
			Tag:            tag,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		})
		gt.NoError(t, err)
	}

	records, err := repo.RecentMemories(ctx, cid, 10)
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
	gt.Equal(t, records[0].Tag, "Chintu")
	gt.Equal(t, records[1].Tag, "Bike1")
}

func TestFirestoreSearch(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()
	cid := testConversation()
	t.Cleanup(func() { _ = repo.ClearMemories(ctx, cid) })

	err := repo.PutMemory(ctx, &model.MemoryRecord{
		ConversationID: cid,
		Description:    "a red bicycle leaning on a wall",
		Tag:            "Bike1",
	})
	gt.NoError(t, err)

	records, err := repo.SearchMemories(ctx, cid, "bicycle", 5)
	gt.NoError(t, err)
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0].Tag, "Bike1")
}

func TestFirestoreClear(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()
	cid := testConversation()

	err := repo.PutMemory(ctx, &model.MemoryRecord{
		ConversationID: cid,
		Description:    "to be cleared",
		Tag:            "Temp",
	})
	gt.NoError(t, err)

	gt.NoError(t, repo.ClearMemories(ctx, cid))

	records, err := repo.RecentMemories(ctx, cid, 10)
	gt.NoError(t, err)
	gt.A(t, records).Length(0)
}
