package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/thirdeye/pkg/adapter"
	"github.com/m-mizutani/thirdeye/pkg/repository"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Server
	addr      string
	publicURL string

	// Adapters
	geminiAPIKey string
	geminiModel  string
	ttsLang      string

	// Repository
	firestoreProject  string
	firestoreDatabase string

	// Media storage
	bucket  string
	dataDir string

	// Sessions
	sessionCapacity int64
	sessionTTL      time.Duration

	// Misc
	promptFile string
	logLevel   string
}

// globalFlags returns common flags with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THIRDEYE_ADDR"),
			Destination: &cfg.addr,
		},
		&cli.StringFlag{
			Name:        "public-url",
			Usage:       "Externally reachable base URL for media links (derived from the request when empty)",
			Sources:     cli.EnvVars("THIRDEYE_PUBLIC_URL"),
			Destination: &cfg.publicURL,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini generative model",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("THIRDEYE_GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "tts-lang",
			Usage:       "Language hint for speech synthesis",
			Value:       "hi",
			Sources:     cli.EnvVars("THIRDEYE_TTS_LANG"),
			Destination: &cfg.ttsLang,
		},
		&cli.StringFlag{
			Name:        "firestore-project",
			Usage:       "Google Cloud project ID for long-term memory (in-process memory when empty)",
			Sources:     cli.EnvVars("FIRESTORE_PROJECT_ID"),
			Destination: &cfg.firestoreProject,
		},
		&cli.StringFlag{
			Name:        "firestore-database",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.firestoreDatabase,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for media artifacts (local data dir when empty)",
			Sources:     cli.EnvVars("THIRDEYE_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Local directory for media artifacts",
			Value:       "/tmp/thirdeye",
			Sources:     cli.EnvVars("THIRDEYE_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
		&cli.IntFlag{
			Name:        "session-capacity",
			Usage:       "Maximum number of conversations with live session state",
			Value:       1024,
			Sources:     cli.EnvVars("THIRDEYE_SESSION_CAPACITY"),
			Destination: &cfg.sessionCapacity,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle session expiry",
			Value:       12 * time.Hour,
			Sources:     cli.EnvVars("THIRDEYE_SESSION_TTL"),
			Destination: &cfg.sessionTTL,
		},
		&cli.StringFlag{
			Name:        "prompts",
			Usage:       "YAML file overriding the built-in prompts",
			Sources:     cli.EnvVars("THIRDEYE_PROMPTS"),
			Destination: &cfg.promptFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("THIRDEYE_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// newGemini creates the AI gateway. The key is the one credential the
// service cannot start without.
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiAPIKey == "" {
		return nil, goerr.New("gemini-api-key is required")
	}
	return adapter.NewGemini(ctx, cfg.geminiAPIKey, adapter.WithGenerativeModel(cfg.geminiModel))
}

// newRepository creates the long-term memory store. Without a Firestore
// project the service degrades to in-process memory instead of failing.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.firestoreProject == "" {
		logging.From(ctx).Warn("no firestore project configured, using in-process memory")
		return repository.NewMemory(), nil
	}

	repo, err := repository.New(ctx, cfg.firestoreProject, cfg.firestoreDatabase)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newStorage creates the media artifact store.
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket != "" {
		storage, err := adapter.NewStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage")
		}
		return storage, nil
	}

	return adapter.NewLocalStorage(cfg.dataDir)
}
