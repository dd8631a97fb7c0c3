package adapter

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// MediaFetcher downloads provider-hosted inbound media.
type MediaFetcher interface {
	// Fetch returns the media bytes and the content type reported by the host.
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// maxMediaSize bounds a single inbound attachment (WhatsApp caps media at
// 16MB; anything larger is not a legitimate provider callback).
const maxMediaSize = 16 << 20

type mediaFetcher struct {
	client *http.Client
}

// NewMediaFetcher creates an HTTP-backed MediaFetcher.
func NewMediaFetcher() MediaFetcher {
	return &mediaFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (f *mediaFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create media request", goerr.V("url", url))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to fetch media", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", goerr.New("media host returned error", goerr.V("status", resp.StatusCode), goerr.V("url", url))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize))
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to read media body")
	}

	return data, resp.Header.Get("Content-Type"), nil
}
