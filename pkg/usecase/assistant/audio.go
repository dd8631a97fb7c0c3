package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/m-mizutani/thirdeye/pkg/model"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

// handleAudio answers a voice note, grounded in the document context when
// one is loaded, and attaches a synthesized spoken reply when speech
// synthesis succeeds.
func (u *UseCase) handleAudio(ctx context.Context, sess *model.Session, msg *model.InboundMessage) *model.Reply {
	logger := logging.From(ctx)

	data, err := u.fetchMedia(ctx, msg.Media.URL)
	if err != nil {
		logger.Error("failed to fetch audio", "error", err)
		return model.NewReply(replyFailure)
	}

	instruction := u.prompts.AudioGeneric
	if sess.Document != nil {
		instruction = fmt.Sprintf(u.prompts.AudioWithDocument, truncate(sess.Document.Text, docPromptLimit))
	}

	answer, err := u.generateWithMedia(ctx, instruction, data, msg.Media.ContentType)
	if err != nil {
		logger.Error("audio understanding failed", "error", err)
		return model.NewReply(replyFailure)
	}

	reply := model.NewReply("🗣️ " + answer)

	// Spoken reply is best-effort: TTS or storage trouble degrades to a
	// text-only answer.
	if key := u.synthesizeReply(ctx, answer); key != "" {
		reply.TextWithMedia("", mediaURL(msg.BaseURL, key))
	}

	return reply
}

// synthesizeReply converts answer text to speech and stores the artifact,
// returning its storage key or "" on any failure.
func (u *UseCase) synthesizeReply(ctx context.Context, text string) string {
	if u.speech == nil {
		return ""
	}
	logger := logging.From(ctx)

	audio, _, err := u.speech.Synthesize(ctx, cleanForSpeech(text), u.ttsLang)
	if err != nil {
		logger.Warn("speech synthesis failed", "error", err)
		return ""
	}

	return u.storeArtifact(ctx, newArtifactKey("audios", "reply", "mp3"), audio)
}

var speechUnfriendly = regexp.MustCompile(`[^\p{L}\p{N}\s,?.!']`)

// cleanForSpeech strips markdown markers and symbols that sound wrong
// when read aloud.
func cleanForSpeech(text string) string {
	clean := strings.NewReplacer("*", "", "_", "", "#", "").Replace(text)
	clean = speechUnfriendly.ReplaceAllString(clean, "")
	return strings.TrimSpace(clean)
}
