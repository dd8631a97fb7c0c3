package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
)

// newArtifactKey builds a storage key like "images/img_20060102_150405_1a2b3c4d.jpg".
func newArtifactKey(dir, prefix, ext string) string {
	return fmt.Sprintf("%s/%s_%s_%s.%s",
		dir, prefix, time.Now().Format("20060102_150405"), uuid.New().String()[:8], ext)
}

// mediaURL turns a storage key into a link served by this process.
func mediaURL(baseURL, key string) string {
	return strings.TrimSuffix(baseURL, "/") + "/media/" + key
}

// storeArtifact saves bytes under key. Best-effort: on failure it logs and
// returns an empty key so the caller degrades instead of aborting the turn.
func (u *UseCase) storeArtifact(ctx context.Context, key string, data []byte) string {
	if u.storage == nil {
		return ""
	}

	w, err := u.storage.Put(ctx, key)
	if err != nil {
		logging.From(ctx).Warn("failed to open artifact writer", "key", key, "error", err)
		return ""
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		logging.From(ctx).Warn("failed to write artifact", "key", key, "error", err)
		return ""
	}
	if err := w.Close(); err != nil {
		logging.From(ctx).Warn("failed to finalize artifact", "key", key, "error", err)
		return ""
	}
	return key
}

// fetchMedia downloads the inbound attachment from the provider host.
func (u *UseCase) fetchMedia(ctx context.Context, url string) ([]byte, error) {
	if u.fetcher == nil {
		return nil, goerr.New("media fetcher is not configured")
	}
	data, _, err := u.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, goerr.New("empty media body", goerr.V("url", url))
	}
	return data, nil
}
