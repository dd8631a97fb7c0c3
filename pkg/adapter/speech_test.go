package adapter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/thirdeye/pkg/adapter"
)

func TestSynthesize(t *testing.T) {
	var gotLang, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.URL.Query().Get("tl")
		gotText = r.URL.Query().Get("q")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	speech := adapter.NewSpeech(adapter.WithSpeechEndpoint(srv.URL))

	audio, mime, err := speech.Synthesize(context.Background(), "namaste", "hi")
	gt.NoError(t, err)
	gt.Equal(t, string(audio), "mp3-bytes")
	gt.Equal(t, mime, "audio/mpeg")
	gt.Equal(t, gotLang, "hi")
	gt.Equal(t, gotText, "namaste")
}

func TestSynthesizeEmptyText(t *testing.T) {
	speech := adapter.NewSpeech()
	_, _, err := speech.Synthesize(context.Background(), "", "hi")
	gt.Error(t, err)
}

func TestSynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	speech := adapter.NewSpeech(adapter.WithSpeechEndpoint(srv.URL))
	_, _, err := speech.Synthesize(context.Background(), "hello", "en")
	gt.Error(t, err)
}
