package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/repository"
)

func TestMemoryPutAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cid := model.ConversationID("whatsapp:+15550001111")

	base := time.Now()
	for i, tag := range []string{"Bike1", "Chintu", "Garden"} {
		err := repo.PutMemory(ctx, &model.MemoryRecord{
			ConversationID: cid,
			Description:    "desc " + tag,
			Tag:            tag,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		})
		gt.NoError(t, err)
	}

	records, err := repo.RecentMemories(ctx, cid, 2)
	gt.NoError(t, err)
	gt.A(t, records).Length(2)
	gt.Equal(t, records[0].Tag, "Garden")
	gt.Equal(t, records[1].Tag, "Chintu")
}

func TestMemoryRecentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cid := model.ConversationID("whatsapp:+15550001111")

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ConversationID: cid, Tag: "a"}))
	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ConversationID: cid, Tag: "b"}))

	first, err := repo.RecentMemories(ctx, cid, 10)
	gt.NoError(t, err)
	second, err := repo.RecentMemories(ctx, cid, 10)
	gt.NoError(t, err)

	gt.A(t, second).Length(len(first))
	for i := range first {
		gt.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestMemorySearch(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	cid := model.ConversationID("whatsapp:+15550001111")

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{
		ConversationID: cid,
		Description:    "a red bicycle leaning on a wall",
		Tag:            "Bike1",
	}))
	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{
		ConversationID: cid,
		Description:    "a small brown puppy",
		Tag:            "Chintu",
	}))

	byTag, err := repo.SearchMemories(ctx, cid, "chintu", 5)
	gt.NoError(t, err)
	gt.A(t, byTag).Length(1)
	gt.Equal(t, byTag[0].Tag, "Chintu")

	byDesc, err := repo.SearchMemories(ctx, cid, "bicycle", 5)
	gt.NoError(t, err)
	gt.A(t, byDesc).Length(1)
	gt.Equal(t, byDesc[0].Tag, "Bike1")

	none, err := repo.SearchMemories(ctx, cid, "spaceship", 5)
	gt.NoError(t, err)
	gt.A(t, none).Length(0)
}

func TestMemoryClearIsScopedToConversation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	alice := model.ConversationID("whatsapp:+15550001111")
	bob := model.ConversationID("whatsapp:+15550002222")

	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ConversationID: alice, Tag: "a"}))
	gt.NoError(t, repo.PutMemory(ctx, &model.MemoryRecord{ConversationID: bob, Tag: "b"}))

	gt.NoError(t, repo.ClearMemories(ctx, alice))

	cleared, err := repo.RecentMemories(ctx, alice, 10)
	gt.NoError(t, err)
	gt.A(t, cleared).Length(0)

	kept, err := repo.RecentMemories(ctx, bob, 10)
	gt.NoError(t, err)
	gt.A(t, kept).Length(1)
}
