package adapter

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Storage is the interface for media artifact storage: received images and
// documents, and synthesized audio replies. Keys are flat names such as
// "audios/reply_150405.mp3".
type Storage interface {
	// Put returns a writer to save an artifact
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get loads an artifact by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// storageClient implements Storage using Cloud Storage
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a new Cloud Storage client
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	bucket := s.client.Bucket(s.bucketName)
	obj := bucket.Object(key)
	writer := obj.NewWriter(ctx)
	return writer, nil
}

func (s *storageClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	bucket := s.client.Bucket(s.bucketName)
	obj := bucket.Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage", goerr.Value("key", key))
	}

	return reader, nil
}

// localStorage implements Storage on a local directory, used when no
// bucket is configured.
type localStorage struct {
	baseDir string
}

// NewLocalStorage creates a Storage rooted at baseDir.
func NewLocalStorage(baseDir string) (Storage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", baseDir))
	}
	return &localStorage{baseDir: baseDir}, nil
}

// resolve maps a key to a path under baseDir, rejecting traversal.
func (s *localStorage) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", goerr.New("invalid storage key", goerr.V("key", key))
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func (s *localStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create artifact directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create artifact file", goerr.V("key", key))
	}
	return f, nil
}

func (s *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact", goerr.V("key", key))
	}
	return f, nil
}
