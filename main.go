package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"validation/internal/config"
	"validation/internal/roi"
	ui "validation/internal/ui"
	"validation/processing/capture"
	"validation/processing/overlay"

	"fyne.io/fyne/v2/app"
)

func main() {
	cfg, err := config.LoadConfigFile(config.DefaultConfigPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if err != nil {
		logger.Warn("using default configuration", "err", err)
	}

	rois, err := roi.NewStore(logger).Load(cfg.GetROIPath())
	if err != nil {
		logger.Warn("ROI definitions partially loaded", "count", len(rois), "err", err)
	}

	renderer, err := overlay.NewRenderer(overlay.DefaultStyle())
	if err != nil {
		logger.Error("overlay renderer unavailable", "err", err)
		os.Exit(1)
	}

	opener, err := capture.NewOpener(cfg)
	if err != nil {
		logger.Error("camera backend unavailable", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := ui.CreateApp(app.New(), cfg, ui.Deps{
		Opener:   opener,
		Renderer: renderer,
		ROIs:     rois,
		Logger:   logger,
	})

	a.Run(ctx)
}
