package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/thirdeye/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	// Local development keeps credentials in .env; absence is fine.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "thirdeye",
		Usage: "WhatsApp visual-memory assistant webhook",
		Commands: []*cli.Command{
			serveCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
