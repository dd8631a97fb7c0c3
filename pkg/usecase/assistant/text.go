package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

// nameUnknown is the sentinel the extraction prompt returns when the
// message contains no recognizable name.
const nameUnknown = "Unknown"

// handleText covers every plain-text branch: tag capture, document Q&A,
// memory recall, history listing, and general chat, in that order.
func (u *UseCase) handleText(ctx context.Context, sess *model.Session, msg *model.InboundMessage, body string) *model.Reply {
	switch {
	case sess.PendingTag != nil:
		return u.handleTagCapture(ctx, sess, body)
	case sess.Document != nil:
		return u.handleDocumentQuestion(ctx, sess, body)
	case isRecallRequest(body):
		return u.handleRecall(ctx, sess, msg, recallQuery(body))
	case isHistoryRequest(body):
		return u.handleHistory(ctx, sess)
	default:
		return u.handleChat(ctx, sess, body)
	}
}

// handleTagCapture treats the message body as the name for the last
// analyzed image and persists the pair as a memory record.
func (u *UseCase) handleTagCapture(ctx context.Context, sess *model.Session, body string) *model.Reply {
	logger := logging.From(ctx)

	tag := body
	extracted, err := u.generateText(ctx, fmt.Sprintf(u.prompts.ExtractName, body))
	if err != nil {
		logger.Warn("name extraction failed, using raw message", "error", err)
	} else if cleaned := strings.TrimSpace(extracted); cleaned != "" && !strings.Contains(cleaned, nameUnknown) {
		tag = cleaned
	}

	record := &model.MemoryRecord{
		ConversationID: sess.ConversationID,
		Description:    sess.PendingTag.Description,
		Tag:            tag,
		MediaKey:       sess.PendingTag.MediaKey,
	}
	if err := u.repo.PutMemory(ctx, record); err != nil {
		// Pending state stays so the user can simply retry.
		logger.Error("failed to save memory record", "error", err)
		return model.NewReply(replyFailure)
	}

	sess.PendingTag = nil
	logger.Info("memory record saved", "tag", tag)
	return model.NewReply(fmt.Sprintf("✅ Saved as '%s'.", tag))
}

// handleDocumentQuestion answers the message grounded in the loaded
// document. The context itself is left untouched.
func (u *UseCase) handleDocumentQuestion(ctx context.Context, sess *model.Session, body string) *model.Reply {
	logger := logging.From(ctx)

	promptText := fmt.Sprintf(u.prompts.DocumentQA, truncate(sess.Document.Text, docPromptLimit), body)
	answer, err := u.generateText(ctx, promptText)
	if err != nil {
		logger.Error("document answer failed", "error", err)
		return model.NewReply(replyFailure)
	}

	return model.NewReply(answer)
}

// handleRecall looks up stored memories by tag or description.
func (u *UseCase) handleRecall(ctx context.Context, sess *model.Session, msg *model.InboundMessage, query string) *model.Reply {
	logger := logging.From(ctx)

	if query == "" {
		return model.NewReply("Tell me what to look for, e.g. 'show me Chintu'.")
	}

	records, err := u.repo.SearchMemories(ctx, sess.ConversationID, query, 1)
	if err != nil {
		logger.Warn("memory search failed", "error", err)
		records = nil
	}
	if len(records) == 0 {
		return model.NewReply(fmt.Sprintf("❌ I don't have anything saved for '%s'.", query))
	}

	rec := records[0]
	body := fmt.Sprintf("🖼️ *%s*\n📝 %s", rec.Tag, rec.Description)
	if rec.MediaKey != "" {
		reply := model.NewReply(body)
		reply.TextWithMedia("", mediaURL(msg.BaseURL, rec.MediaKey))
		return reply
	}
	return model.NewReply(body)
}

// handleHistory lists the most recent saved memories.
func (u *UseCase) handleHistory(ctx context.Context, sess *model.Session) *model.Reply {
	logger := logging.From(ctx)

	records, err := u.repo.RecentMemories(ctx, sess.ConversationID, historyLimit)
	if err != nil {
		logger.Warn("history lookup failed", "error", err)
		records = nil
	}
	if len(records) == 0 {
		return model.NewReply("📚 No photos saved yet. Send me one!")
	}

	var b strings.Builder
	b.WriteString("📚 *Recent photos:*\n")
	for i, rec := range records {
		name := rec.Tag
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, name, truncate(rec.Description, 60))
	}
	return model.NewReply(b.String())
}

// handleChat answers general conversation, enriched with recent memory
// tags and, for question-looking messages, web search grounding. Both
// enrichments are best-effort.
func (u *UseCase) handleChat(ctx context.Context, sess *model.Session, body string) *model.Reply {
	logger := logging.From(ctx)

	webInfo := ""
	if looksLikeQuestion(body) {
		info, err := u.webSearch(ctx, body)
		if err != nil {
			logger.Warn("web search failed", "error", err)
		} else {
			webInfo = info
		}
	}

	memories := ""
	if records, err := u.repo.RecentMemories(ctx, sess.ConversationID, chatMemoryLimit); err != nil {
		logger.Warn("memory enrichment failed", "error", err)
	} else {
		tags := make([]string, 0, len(records))
		for _, rec := range records {
			if rec.Tag != "" {
				tags = append(tags, rec.Tag)
			}
		}
		memories = strings.Join(tags, ", ")
	}

	answer, err := u.generateText(ctx, fmt.Sprintf(u.prompts.Chat, memories, webInfo, body))
	if err != nil {
		logger.Error("chat generation failed", "error", err)
		return model.NewReply(replyFailure)
	}

	return model.NewReply(answer)
}

var recallPrefixes = []string{"show me ", "show ", "find "}

func isRecallRequest(body string) bool {
	lower := strings.ToLower(body)
	for _, p := range recallPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// recallQuery strips the recall prefix and trailing punctuation from the
// message, leaving the search term.
func recallQuery(body string) string {
	lower := strings.ToLower(body)
	for _, p := range recallPrefixes {
		if strings.HasPrefix(lower, p) {
			return strings.Trim(strings.TrimSpace(body[len(p):]), "?!.")
		}
	}
	return ""
}

func isHistoryRequest(body string) bool {
	return strings.Contains(strings.ToLower(body), "history")
}

func looksLikeQuestion(body string) bool {
	return strings.Contains(body, "?") || strings.HasPrefix(strings.ToLower(body), "search ")
}
