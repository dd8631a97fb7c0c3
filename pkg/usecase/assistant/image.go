package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

// handleImage analyzes an incoming photo, checks recent memories for a
// semantic duplicate, and otherwise parks the description as a pending
// tag awaiting a user-supplied name.
func (u *UseCase) handleImage(ctx context.Context, sess *model.Session, msg *model.InboundMessage) *model.Reply {
	logger := logging.From(ctx)

	data, err := u.fetchMedia(ctx, msg.Media.URL)
	if err != nil {
		logger.Error("failed to fetch image", "error", err)
		return model.NewReply(replyFailure)
	}

	description, err := u.generateWithMedia(ctx, u.prompts.DescribeImage, data, msg.Media.ContentType)
	if err != nil {
		logger.Error("image analysis failed", "error", err)
		return model.NewReply(replyFailure)
	}

	if tag := u.findDuplicate(ctx, sess.ConversationID, description); tag != "" {
		logger.Info("recognized known object", "tag", tag)
		return model.NewReply(fmt.Sprintf("🧠 *Recall:* That's '%s'!", tag))
	}

	key := u.storeArtifact(ctx, newArtifactKey("images", "img", "jpg"), data)

	sess.PendingTag = &model.PendingTag{
		Description: description,
		MediaKey:    key,
		CreatedAt:   time.Now(),
	}

	return model.NewReply(fmt.Sprintf("👁️ *Analysis:* %s\n\nReply with a *name* to save this.", description))
}

// findDuplicate compares the new description against at most the
// duplicateWindow most recent records. The first semantic match wins and
// stops the scan. Every failure downgrades to "no duplicate".
func (u *UseCase) findDuplicate(ctx context.Context, id model.ConversationID, description string) string {
	logger := logging.From(ctx)

	records, err := u.repo.RecentMemories(ctx, id, duplicateWindow)
	if err != nil {
		logger.Warn("memory lookup failed, skipping duplicate check", "error", err)
		return ""
	}

	for _, rec := range records {
		verdict, err := u.generateText(ctx, fmt.Sprintf(u.prompts.CompareObjects, description, rec.Description))
		if err != nil {
			logger.Warn("comparison failed, treating as no match", "error", err)
			continue
		}
		if strings.Contains(strings.ToUpper(verdict), "YES") {
			return rec.Tag
		}
	}
	return ""
}
