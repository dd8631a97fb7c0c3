package adapter

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Speech converts reply text into an audio artifact for attachment.
type Speech interface {
	// Synthesize returns encoded audio and its MIME type.
	Synthesize(ctx context.Context, text, lang string) ([]byte, string, error)
}

// ttsEndpoint is the Google Translate TTS service. One GET per utterance,
// MP3 back. The endpoint caps the q parameter at 200 characters.
const ttsEndpoint = "https://translate.google.com/translate_tts"

const maxUtteranceLen = 200

type speechClient struct {
	endpoint string
	client   *http.Client
}

type SpeechOption func(*speechClient)

// WithSpeechEndpoint overrides the TTS endpoint, mainly for tests.
func WithSpeechEndpoint(endpoint string) SpeechOption {
	return func(s *speechClient) {
		s.endpoint = endpoint
	}
}

// NewSpeech creates a Speech client backed by the hosted Translate TTS
// service.
func NewSpeech(opts ...SpeechOption) Speech {
	s := &speechClient{
		endpoint: ttsEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *speechClient) Synthesize(ctx context.Context, text, lang string) ([]byte, string, error) {
	if text == "" {
		return nil, "", goerr.New("empty text for speech synthesis")
	}
	if lang == "" {
		lang = "en"
	}
	if len(text) > maxUtteranceLen {
		text = truncateUTF8(text, maxUtteranceLen)
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create TTS request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", goerr.Wrap(err, "TTS request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", goerr.New("TTS service returned error", goerr.V("status", resp.StatusCode))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to read TTS response")
	}

	return audio, "audio/mpeg", nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
