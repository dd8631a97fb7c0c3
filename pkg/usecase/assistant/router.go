package assistant

import (
	"context"
	"strings"

	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

const resetKeyword = "/reset"

// HandleMessage is the single entry point of the intent router. It always
// returns a well-formed reply; internal failures are logged and converted
// to the fixed failure message.
func (u *UseCase) HandleMessage(ctx context.Context, msg *model.InboundMessage) *model.Reply {
	logger := logging.From(ctx).With("conversation", msg.From)
	ctx = logging.With(ctx, logger)

	sess, release := u.sessions.Acquire(msg.From)
	defer release()

	body := strings.TrimSpace(msg.Body)

	// Reset beats every other branch.
	if strings.EqualFold(body, resetKeyword) {
		return u.handleReset(ctx, sess)
	}

	if msg.Media != nil {
		switch msg.Media.Kind {
		case model.MediaKindImage:
			return u.handleImage(ctx, sess, msg)
		case model.MediaKindAudio:
			return u.handleAudio(ctx, sess, msg)
		case model.MediaKindDocument:
			return u.handleDocument(ctx, sess, msg)
		default:
			// No side effects and no gateway calls for unknown kinds.
			logger.Info("unsupported media kind", "content_type", msg.Media.ContentType)
			return model.NewReply(replyUnsupported)
		}
	}

	return u.handleText(ctx, sess, msg, body)
}

// handleReset clears the ephemeral session and all persisted memories for
// the conversation.
func (u *UseCase) handleReset(ctx context.Context, sess *model.Session) *model.Reply {
	logger := logging.From(ctx)

	if err := u.repo.ClearMemories(ctx, sess.ConversationID); err != nil {
		logger.Error("failed to clear memories", "error", err)
		return model.NewReply(replyFailure)
	}

	sess.Reset()
	u.sessions.Clear(sess.ConversationID)

	logger.Info("conversation reset")
	return model.NewReply(replyReset)
}
