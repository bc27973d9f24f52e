package ui

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"validation/internal/config"
	"validation/internal/cycle"
	"validation/internal/models"
	"validation/processing/capture"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	mu     sync.Mutex
	fail   bool
	closes int
}

func (s *scriptedSource) Read() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return nil, false
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 3)), true
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *scriptedSource) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

type identityRenderer struct{}

func (identityRenderer) Render(frame image.Image, _ []models.ROI) *image.RGBA {
	return frame.(*image.RGBA)
}

func newTestApp(t *testing.T, source *scriptedSource) (*ValidationApp, *int) {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.SetTickInterval(time.Hour)

	opens := 0
	opener := func(int) (capture.FrameSource, error) {
		opens++
		return source, nil
	}

	a := CreateApp(test.NewApp(), cfg, Deps{
		Opener:   opener,
		Renderer: identityRenderer{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(a.Stop)

	return a, &opens
}

func TestResetButtonUpdatesCounters(t *testing.T) {
	a, _ := newTestApp(t, &scriptedSource{})

	assert.Equal(t, "0", a.totalStat.Text())
	assert.Equal(t, "", a.statusLabel.Text)
	assert.Equal(t, "Reset Cycle", a.resetButton.Text)

	for i := 0; i < 3; i++ {
		test.Tap(a.resetButton)
	}

	assert.Equal(t, "3", a.totalStat.Text())
	assert.Equal(t, "0", a.correctStat.Text())
	assert.Equal(t, "3", a.incorrectStat.Text())
	assert.Equal(t, cycle.ResetStatus, a.statusLabel.Text)
	assert.Equal(t, models.Counts{Total: 3, Incorrect: 3, Status: "Cycle Reset"}, a.counter.Snapshot())
}

func TestWindowUsesFixedLayout(t *testing.T) {
	a, _ := newTestApp(t, &scriptedSource{})

	assert.Equal(t, "Validation System using Video Analytics", a.mainWin.Title())
	assert.Equal(t, "Total Cycles:", a.totalStat.Caption)
	assert.Equal(t, "Correct Cycles:", a.correctStat.Caption)
	assert.Equal(t, "Incorrect Cycles:", a.incorrectStat.Caption)
}

func TestFailedReadLeavesDisplayAndCountersUnchanged(t *testing.T) {
	source := &scriptedSource{}
	a, _ := newTestApp(t, source)
	a.Start(context.Background())

	test.Tap(a.resetButton)
	require.True(t, a.processor.Tick())

	shown := a.surface.image.Image
	require.NotNil(t, shown)
	before := a.counter.Snapshot()

	source.setFail(true)
	assert.False(t, a.processor.Tick())

	assert.Same(t, shown, a.surface.image.Image)
	assert.Equal(t, before, a.counter.Snapshot())
	assert.Equal(t, "1", a.totalStat.Text())
}

func TestStopReleasesCameraOnce(t *testing.T) {
	source := &scriptedSource{}
	a, opens := newTestApp(t, source)

	a.Start(context.Background())
	a.Start(context.Background())
	a.Stop()
	a.Stop()

	assert.Equal(t, 1, *opens)
	assert.Equal(t, 1, source.closes)
}

func TestFit_LetterboxesWideFrame(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	bg := color.NRGBA{0, 0, 255, 255}

	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:], []uint8{255, 0, 0, 255})
	}

	out := Fit(src, image.Pt(100, 100), bg)

	require.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
	assert.Equal(t, bg, out.NRGBAAt(50, 10))
	assert.Equal(t, bg, out.NRGBAAt(50, 90))
	assertNear(t, red, out.NRGBAAt(50, 50))
	assertNear(t, red, out.NRGBAAt(0, 30))
}

func TestFit_PillarboxesTallFrame(t *testing.T) {
	bg := color.NRGBA{0, 0, 0, 255}
	src := image.NewNRGBA(image.Rect(0, 0, 100, 200))
	for i := 0; i < len(src.Pix); i += 4 {
		copy(src.Pix[i:], []uint8{0, 255, 0, 255})
	}

	out := Fit(src, image.Pt(300, 300), bg)

	require.Equal(t, image.Rect(0, 0, 300, 300), out.Bounds())
	assert.Equal(t, bg, out.NRGBAAt(10, 150))
	assert.Equal(t, bg, out.NRGBAAt(290, 150))
	assertNear(t, color.NRGBA{0, 255, 0, 255}, out.NRGBAAt(150, 150))
}

func TestFit_RecomputedPerViewport(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))

	assert.Equal(t, image.Rect(0, 0, 80, 60), Fit(src, image.Pt(80, 60), color.Black).Bounds())
	assert.Equal(t, image.Rect(0, 0, 20, 50), Fit(src, image.Pt(20, 50), color.Black).Bounds())
	assert.Equal(t, image.Rect(0, 0, 40, 30), Fit(src, image.Pt(0, 0), color.Black).Bounds())
}

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			d = -d
		}
		return d
	}
	assert.LessOrEqual(t, diff(want.R, got.R)+diff(want.G, got.G)+diff(want.B, got.B), 6, "want %v got %v", want, got)
}

func TestHeaderFollowsThemeForeground(t *testing.T) {
	a, _ := newTestApp(t, &scriptedSource{})

	assert.Equal(t, "Process Validation System", a.header.Text)
	assert.Equal(t, theme.Color(theme.ColorNameForeground), a.header.Color)

	a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	require.Eventually(t, func() bool {
		return a.header.Color == theme.Color(theme.ColorNameForeground)
	}, time.Second, 10*time.Millisecond)

	a.fyneApp.Settings().SetTheme(theme.LightTheme())
	require.Eventually(t, func() bool {
		return a.header.Color == theme.Color(theme.ColorNameForeground)
	}, time.Second, 10*time.Millisecond)
}

func TestWindowSizeFromConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Window = config.WindowConfig{Width: 640, Height: 480}

	a := CreateApp(test.NewApp(), cfg, Deps{
		Opener:   func(int) (capture.FrameSource, error) { return &scriptedSource{}, nil },
		Renderer: identityRenderer{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(a.Stop)

	assert.Equal(t, config.WindowConfig{Width: 640, Height: 480}, cfg.GetWindow())
	assert.Equal(t, "Validation System using Video Analytics", a.mainWin.Title())
}
