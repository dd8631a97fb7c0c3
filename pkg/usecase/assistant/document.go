package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

// handleDocument extracts the text of an uploaded PDF, overwrites the
// conversation's document context, and replies with a short summary.
func (u *UseCase) handleDocument(ctx context.Context, sess *model.Session, msg *model.InboundMessage) *model.Reply {
	logger := logging.From(ctx)

	data, err := u.fetchMedia(ctx, msg.Media.URL)
	if err != nil {
		logger.Error("failed to fetch document", "error", err)
		return model.NewReply(replyFailure)
	}

	text, err := u.generateWithMedia(ctx, u.prompts.ExtractDocument, data, msg.Media.ContentType)
	if err != nil {
		logger.Error("document extraction failed", "error", err)
		return model.NewReply(replyFailure)
	}
	if strings.TrimSpace(text) == "" {
		return model.NewReply(replyEmptyDoc)
	}

	key := u.storeArtifact(ctx, newArtifactKey("documents", "doc", "pdf"), data)

	sess.Document = &model.DocumentContext{
		Text:      text,
		MediaKey:  key,
		UpdatedAt: time.Now(),
	}
	logger.Info("document context loaded", "chars", len(text))

	summary, err := u.generateText(ctx, fmt.Sprintf(u.prompts.SummarizeDocument, truncate(text, docPromptLimit)))
	if err != nil {
		// Context is loaded even when the summary fails; still invite
		// questions.
		logger.Warn("document summary failed", "error", err)
		return model.NewReply("✅ Document loaded. Ask me anything about it!")
	}

	return model.NewReply(fmt.Sprintf("📚 *Summary:*\n%s\n\n👉 Ask me anything about it!", summary))
}
