// Package memhost is a small in-memory implementation of host.Host. It keeps images
// as float64 buffers and implements a subset of menu commands, which is enough to run
// macros headless and to test the macro surface without a desktop application.
package memhost

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/robbyt/go-ijmacro/host"
	"github.com/robbyt/go-ijmacro/internal/helpers"
)

var _ host.Host = (*Host)(nil)

// Host is an in-memory image platform.
type Host struct {
	images *imageList
	rois   *roiManager
	tables *tableList
	log    *logWindow

	beeps atomic.Int64

	rngMu sync.Mutex
	rng   *rand.Rand

	seed       uint64
	logOutput  io.Writer
	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures a Host.
type Option func(*Host) error

// WithLogHandler sets the slog handler used for diagnostics.
func WithLogHandler(handler slog.Handler) Option {
	return func(h *Host) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		h.logHandler = handler
		h.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		h.logger = logger
		h.logHandler = nil
		return nil
	}
}

// WithSeed fixes the seed used for "random" image fills.
func WithSeed(seed uint64) Option {
	return func(h *Host) error {
		h.seed = seed
		return nil
	}
}

// WithLogOutput mirrors every log window line to w.
func WithLogOutput(w io.Writer) Option {
	return func(h *Host) error {
		h.logOutput = w
		return nil
	}
}

// New creates an empty host.
func New(opts ...Option) (*Host, error) {
	h := &Host{seed: 1}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, fmt.Errorf("error applying memhost option: %w", err)
		}
	}
	h.logHandler, h.logger = helpers.ResolveLogger(h.logHandler, h.logger, "memhost", "Host")

	h.rng = rand.New(rand.NewPCG(h.seed, h.seed^0x9e3779b97f4a7c15))
	h.images = newImageList(h)
	h.rois = newRoiManager()
	h.tables = newTableList()
	h.log = newLogWindow(h.logOutput)
	return h, nil
}

func (h *Host) String() string {
	return fmt.Sprintf("memhost.Host{Images: %d, Rois: %d}", h.images.Count(), h.rois.Count())
}

func (h *Host) Images() host.Images         { return h.images }
func (h *Host) RoiManager() host.RoiManager { return h.rois }
func (h *Host) Tables() host.Tables         { return h.tables }
func (h *Host) Log() host.Log               { return h.log }

// Beep records a beep; there is no audio device.
func (h *Host) Beep() {
	h.beeps.Add(1)
	h.logger.Debug("beep")
}

// Beeps returns how many times Beep was called.
func (h *Host) Beeps() int {
	return int(h.beeps.Load())
}

// Run executes a menu command. See commands.go for the supported set.
func (h *Host) Run(ctx context.Context, target host.Image, command, options string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts, err := host.ParseOptions(options)
	if err != nil {
		return err
	}

	cmd, ok := commands[command]
	if !ok {
		return fmt.Errorf("%w: %q", host.ErrUnknownCommand, command)
	}

	var img *Image
	if cmd.needsImage {
		if target == nil {
			return fmt.Errorf("%w: %q requires an image", host.ErrNoImage, command)
		}
		img, ok = target.(*Image)
		if !ok {
			return fmt.Errorf("%w: foreign image type %T", host.ErrNoSuchImage, target)
		}
	}

	h.logger.DebugContext(ctx, "run", "command", command, "options", options)
	return cmd.run(ctx, h, img, opts)
}

func (h *Host) randFloat() float64 {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return h.rng.Float64()
}
