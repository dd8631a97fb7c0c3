package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/session"
)

func TestAcquireCreatesLazily(t *testing.T) {
	store := session.New(0, 0)
	cid := model.ConversationID("whatsapp:+15550001111")

	sess, release := store.Acquire(cid)
	gt.V(t, sess).NotNil()
	gt.Equal(t, sess.ConversationID, cid)
	gt.V(t, sess.PendingTag).Nil()
	gt.V(t, sess.Document).Nil()
	release()

	gt.Equal(t, store.Len(), 1)
}

func TestAcquireReturnsSameSession(t *testing.T) {
	store := session.New(0, 0)
	cid := model.ConversationID("whatsapp:+15550001111")

	sess, release := store.Acquire(cid)
	sess.PendingTag = &model.PendingTag{Description: "a red bicycle"}
	release()

	again, release := store.Acquire(cid)
	defer release()
	gt.V(t, again.PendingTag).NotNil()
	gt.Equal(t, again.PendingTag.Description, "a red bicycle")
}

func TestClear(t *testing.T) {
	store := session.New(0, 0)
	cid := model.ConversationID("whatsapp:+15550001111")

	sess, release := store.Acquire(cid)
	sess.Document = &model.DocumentContext{Text: "three pages of text"}
	release()

	store.Clear(cid)

	fresh, release := store.Acquire(cid)
	defer release()
	gt.V(t, fresh.Document).Nil()
}

func TestAcquireSerializesSameConversation(t *testing.T) {
	store := session.New(0, 0)
	cid := model.ConversationID("whatsapp:+15550001111")

	var wg sync.WaitGroup
	const workers = 16
	counter := 0

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, release := store.Acquire(cid)
			defer release()

			// Non-atomic read-modify-write; the per-conversation lock
			// must keep this race free.
			n := counter
			time.Sleep(time.Millisecond)
			counter = n + 1
			_ = sess
		}()
	}
	wg.Wait()

	gt.Equal(t, counter, workers)
}

func TestCapacityEvictsOldest(t *testing.T) {
	store := session.New(2, time.Hour)

	for _, id := range []model.ConversationID{"a", "b", "c"} {
		sess, release := store.Acquire(id)
		sess.PendingTag = &model.PendingTag{Description: string(id)}
		release()
	}

	gt.Equal(t, store.Len(), 2)

	// "a" was evicted; acquiring it again yields a fresh session.
	sess, release := store.Acquire("a")
	defer release()
	gt.V(t, sess.PendingTag).Nil()
}
