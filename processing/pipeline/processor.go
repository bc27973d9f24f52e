package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"time"

	"validation/internal/models"
	"validation/processing/capture"
)

const DefaultInterval = 30 * time.Millisecond

var ErrStopped = errors.New("pipeline already stopped")

type Renderer interface {
	Render(frame image.Image, rois []models.ROI) *image.RGBA
}

// Sink receives every annotated frame. It is called from the pipeline
// goroutine.
type Sink func(*image.RGBA)

type Stats struct {
	Frames     uint64
	FailedRead uint64
	Latency    time.Duration
	FPS        uint
}

type Options struct {
	Opener      capture.Opener
	DeviceIndex int
	Renderer    Renderer
	ROIs        []models.ROI
	Sink        Sink
	Interval    time.Duration
	Logger      *slog.Logger
}

// Processor is the only owner of the camera: it opens it on Start, reads
// it from a single goroutine and releases it exactly once on Stop.
type Processor struct {
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	source  capture.FrameSource
	cancel  context.CancelFunc
	done    chan struct{}

	statsMu    sync.RWMutex
	stats      Stats
	frameCount uint
	lastFPS    time.Time
}

func NewProcessor(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	return &Processor{
		opts:   opts,
		logger: logger.With("component", "pipeline"),
	}
}

// Start opens the camera and begins ticking. A camera that fails to open is
// reported as a warning and as the returned error; the pipeline then stays
// idle instead of failing every tick.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	if p.started {
		return nil
	}
	p.started = true

	source, err := p.opts.Opener(p.opts.DeviceIndex)
	if err != nil {
		p.logger.Warn("camera failed to open, video will stay blank", "device", p.opts.DeviceIndex, "err", err)
		return err
	}
	p.source = source

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.lastFPS = time.Now()

	go p.run(runCtx, p.done)

	p.logger.Info("pipeline started", "device", p.opts.DeviceIndex, "interval", p.opts.Interval, "rois", len(p.opts.ROIs))

	return nil
}

func (p *Processor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick runs one read, render, display step. A failed read skips the
// rest of the step. Tick must not run concurrently with itself.
func (p *Processor) Tick() bool {
	source := p.currentSource()
	if source == nil {
		return false
	}

	frame, ok := source.Read()
	if !ok || frame == nil {
		p.statsMu.Lock()
		p.stats.FailedRead++
		p.statsMu.Unlock()

		p.logger.Debug("frame read failed, skipping tick")
		return false
	}

	start := time.Now()
	annotated := p.opts.Renderer.Render(frame, p.opts.ROIs)

	if p.opts.Sink != nil {
		p.opts.Sink(annotated)
	}

	p.statsMu.Lock()
	p.stats.Latency = time.Since(start)
	p.stats.Frames++
	p.frameCount++
	if time.Since(p.lastFPS) >= time.Second {
		p.stats.FPS = p.frameCount
		p.frameCount = 0
		p.lastFPS = time.Now()
	}
	p.statsMu.Unlock()

	return true
}

func (p *Processor) currentSource() capture.FrameSource {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Stop is idempotent. It waits for the tick goroutine before releasing the
// camera, so the device is never read after release.
func (p *Processor) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true

	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	p.mu.Lock()
	source := p.source
	p.source = nil
	p.mu.Unlock()

	if source != nil {
		if err := source.Close(); err != nil {
			p.logger.Error("camera release failed", "err", err)
		}
	}

	stats := p.Stats()
	p.logger.Info("pipeline stopped",
		"frames", stats.Frames,
		"failed_reads", stats.FailedRead,
		"fps", stats.FPS,
		"latency", stats.Latency,
	)
}

func (p *Processor) Stats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.stats
}
