// Package assistant implements the per-conversation intent router: given
// one inbound message and the current session, it picks a conversation
// mode, orchestrates the AI gateways, and produces the outbound reply.
package assistant

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/thirdeye/pkg/adapter"
	"github.com/m-mizutani/thirdeye/pkg/prompt"
	"github.com/m-mizutani/thirdeye/pkg/repository"
	"github.com/m-mizutani/thirdeye/pkg/session"
	"google.golang.org/genai"
)

const (
	// duplicateWindow is how many recent memory records an incoming image
	// is compared against. Earliest match wins; comparison stops there.
	duplicateWindow = 20

	// historyLimit is how many records a history request lists.
	historyLimit = 5

	// chatMemoryLimit is how many memory tags enrich a chat prompt.
	chatMemoryLimit = 3

	// docPromptLimit caps how much document text is inlined into a prompt.
	docPromptLimit = 30000
)

// Fixed replies. Gateway failures never propagate to the webhook caller;
// they turn into replyFailure with the state left unchanged.
const (
	replyFailure     = "⚠️ Something went wrong on my side. Please try again."
	replyUnsupported = "I can only handle photos 📸, voice notes 🎙️ and PDFs 📄."
	replyReset       = "🧹 Cleared the session and all saved memories."
	replyEmptyDoc    = "❌ That document appears to be empty."
)

// UseCase wires the intent router to its gateways.
type UseCase struct {
	gemini   adapter.Gemini
	speech   adapter.Speech
	storage  adapter.Storage
	fetcher  adapter.MediaFetcher
	repo     repository.Repository
	sessions *session.Store
	prompts  *prompt.Set
	ttsLang  string
}

// NewInput contains the dependencies for a UseCase.
type NewInput struct {
	Gemini   adapter.Gemini
	Speech   adapter.Speech
	Storage  adapter.Storage
	Fetcher  adapter.MediaFetcher
	Repo     repository.Repository
	Sessions *session.Store
	Prompts  *prompt.Set
	TTSLang  string
}

func New(input NewInput) (*UseCase, error) {
	if input.Gemini == nil {
		return nil, goerr.New("gemini adapter is required")
	}
	if input.Repo == nil {
		return nil, goerr.New("repository is required")
	}
	if input.Sessions == nil {
		return nil, goerr.New("session store is required")
	}
	if input.Prompts == nil {
		input.Prompts = prompt.Default()
	}
	if input.TTSLang == "" {
		input.TTSLang = "en"
	}

	return &UseCase{
		gemini:   input.Gemini,
		speech:   input.Speech,
		storage:  input.Storage,
		fetcher:  input.Fetcher,
		repo:     input.Repo,
		sessions: input.Sessions,
		prompts:  input.Prompts,
		ttsLang:  input.TTSLang,
	}, nil
}

// generateText runs a single-shot text prompt under the system persona.
func (u *UseCase) generateText(ctx context.Context, text string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(u.prompts.System, ""),
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", err
	}

	out := adapter.ResponseText(resp)
	if out == "" {
		return "", goerr.New("model returned no text")
	}
	return out, nil
}

// generateWithMedia runs an instruction plus a raw media part (image,
// audio or document bytes) in one call.
func (u *UseCase) generateWithMedia(ctx context.Context, instruction string, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: instruction},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
		},
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(u.prompts.System, ""),
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", err
	}

	out := adapter.ResponseText(resp)
	if out == "" {
		return "", goerr.New("model returned no text")
	}
	return out, nil
}

// webSearch answers a query grounded in Google Search results.
func (u *UseCase) webSearch(ctx context.Context, query string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(query, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := u.gemini.GenerateContent(ctx, contents, config)
	if err != nil {
		return "", err
	}
	return adapter.ResponseText(resp), nil
}

// truncate caps s at limit bytes on a rune boundary.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && s[limit]&0xC0 == 0x80 {
		limit--
	}
	return s[:limit]
}
