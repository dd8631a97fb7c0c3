package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/thirdeye/pkg/adapter"
	"github.com/m-mizutani/thirdeye/pkg/prompt"
	"github.com/m-mizutani/thirdeye/pkg/server"
	"github.com/m-mizutani/thirdeye/pkg/session"
	"github.com/m-mizutani/thirdeye/pkg/usecase/assistant"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the webhook server",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := logging.New(cfg.logLevel, os.Stdout)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			prompts, err := prompt.Load(cfg.promptFile)
			if err != nil {
				return err
			}

			uc, err := assistant.New(assistant.NewInput{
				Gemini:   gemini,
				Speech:   adapter.NewSpeech(),
				Storage:  storage,
				Fetcher:  adapter.NewMediaFetcher(),
				Repo:     repo,
				Sessions: session.New(int(cfg.sessionCapacity), cfg.sessionTTL),
				Prompts:  prompts,
				TTSLang:  cfg.ttsLang,
			})
			if err != nil {
				return err
			}

			handler := server.New(server.NewInput{
				Handler:   uc,
				Storage:   storage,
				PublicURL: cfg.publicURL,
			})

			srv := &http.Server{
				Addr:        cfg.addr,
				Handler:     handler,
				ReadTimeout: 30 * time.Second,
				BaseContext: func(net.Listener) context.Context { return ctx },
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting webhook server", "addr", cfg.addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shut down server")
				}
				return nil

			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "server failed")
				}
				return nil
			}
		},
	}
}
