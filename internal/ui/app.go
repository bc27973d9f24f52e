package ui

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"validation/internal/config"
	"validation/internal/cycle"
	"validation/internal/models"
	"validation/internal/ui/cwidget"
	"validation/processing/capture"
	"validation/processing/pipeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type Deps struct {
	Opener   capture.Opener
	Renderer pipeline.Renderer
	ROIs     []models.ROI
	Logger   *slog.Logger
}

type ValidationApp struct {
	fyneApp fyne.App
	mainWin fyne.Window
	layout  Layout
	logger  *slog.Logger

	config    *config.Config
	counter   *cycle.Counter
	processor *pipeline.Processor

	header         *canvas.Text
	surface        *Surface
	totalStat      *cwidget.Stat
	correctStat    *cwidget.Stat
	incorrectStat  *cwidget.Stat
	statusLabel    *widget.Label
	resetButton    *widget.Button
	stopOnce       sync.Once
	processorStart sync.Once
}

func CreateApp(a fyne.App, cfg *config.Config, deps Deps) *ValidationApp {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	va := &ValidationApp{
		fyneApp: a,
		layout:  DefaultLayout,
		logger:  logger.With("component", "ui"),
		config:  cfg,
		counter: cycle.NewCounter(),
	}

	va.mainWin = a.NewWindow(va.layout.WindowTitle)
	win := cfg.GetWindow()
	va.mainWin.Resize(fyne.NewSize(win.Width, win.Height))

	va.processor = pipeline.NewProcessor(pipeline.Options{
		Opener:      deps.Opener,
		DeviceIndex: cfg.GetCamera().DeviceIndex,
		Renderer:    deps.Renderer,
		ROIs:        deps.ROIs,
		Sink:        va.showFrame,
		Interval:    cfg.GetTickInterval(),
		Logger:      logger,
	})

	va.mainWin.SetContent(va.build())
	va.counter.OnChange(va.refreshCounts)

	return va
}

func (a *ValidationApp) build() fyne.CanvasObject {
	a.header = canvas.NewText(a.layout.Header, theme.Color(a.layout.HeaderColor))
	a.header.Alignment = fyne.TextAlignCenter
	a.header.TextSize = a.layout.HeaderSize
	a.header.TextStyle = fyne.TextStyle{Bold: true}

	a.fyneApp.Settings().AddListener(func(fyne.Settings) {
		fyne.Do(a.refreshHeader)
	})

	a.surface = NewSurface(a.layout.VideoMinSize, a.layout.VideoBackground)

	a.totalStat = cwidget.NewStat(a.layout.TotalCaption, 0)
	a.correctStat = cwidget.NewStat(a.layout.CorrectCaption, 0)
	a.incorrectStat = cwidget.NewStat(a.layout.IncorrectCaption, 0)

	stats := container.NewHBox(
		layout.NewSpacer(),
		a.totalStat,
		a.correctStat,
		a.incorrectStat,
		layout.NewSpacer(),
	)

	a.statusLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	a.resetButton = widget.NewButtonWithIcon(a.layout.ResetCaption, theme.ViewRefreshIcon(), a.counter.Reset)
	a.resetButton.Importance = widget.HighImportance

	footer := container.NewVBox(
		widget.NewSeparator(),
		stats,
		a.statusLabel,
		container.NewCenter(a.resetButton),
	)

	return container.NewBorder(
		container.NewPadded(a.header),
		container.NewPadded(footer),
		nil, nil,
		container.NewPadded(a.surface.Object()),
	)
}

// refreshHeader follows the theme's foreground when the user switches
// between light and dark.
func (a *ValidationApp) refreshHeader() {
	a.header.Color = theme.Color(a.layout.HeaderColor)
	a.header.Refresh()
}

// refreshCounts runs on the UI thread: Reset is only triggered by the
// button.
func (a *ValidationApp) refreshCounts(c models.Counts) {
	a.totalStat.SetValue(c.Total)
	a.correctStat.SetValue(c.Correct)
	a.incorrectStat.SetValue(c.Incorrect)
	a.statusLabel.SetText(c.Status)

	a.logger.Info("cycle reset", "total", c.Total, "correct", c.Correct, "incorrect", c.Incorrect)
}

func (a *ValidationApp) showFrame(frame *image.RGBA) {
	fyne.Do(func() {
		a.surface.Show(frame)
	})
}

// Start opens the camera and starts the frame loop. Only the first call
// has an effect.
func (a *ValidationApp) Start(ctx context.Context) {
	a.processorStart.Do(func() {
		if err := a.processor.Start(ctx); err != nil {
			a.logger.Warn("starting without video", "err", err)
		}
	})
}

// Stop releases the camera. Safe to call from the close handler, a signal
// and the deferred shutdown path alike.
func (a *ValidationApp) Stop() {
	a.stopOnce.Do(func() {
		a.processor.Stop()
		a.logger.Info("application stopped")
	})
}

// Run blocks until the window is closed or ctx is cancelled.
func (a *ValidationApp) Run(ctx context.Context) {
	a.Start(ctx)
	defer a.Stop()

	a.mainWin.SetCloseIntercept(func() {
		a.Stop()
		a.mainWin.Close()
	})

	finished := make(chan struct{})
	defer close(finished)

	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("shutdown requested", "cause", context.Cause(ctx))
			fyne.Do(func() {
				a.Stop()
				a.fyneApp.Quit()
			})
		case <-finished:
		}
	}()

	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()
}
