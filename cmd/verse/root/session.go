package root

import (
	"context"

	"sacredverse/internal/app"
	"sacredverse/internal/storage"
)

func (c *cli) openApp(ctx context.Context) (*app.App, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var opts []app.Option
	if c.ephemeral {
		opts = append(opts, app.WithKV(storage.NewMemStore()))
	}
	a, err := app.Open(ctx, c.cfg, c.logger, opts...)
	if err != nil {
		return nil, nil, err
	}
	if a.Fallback {
		c.logger.Info("using built-in sample content")
	}
	cleanup := func() {
		_ = a.Close()
	}
	return a, cleanup, nil
}
