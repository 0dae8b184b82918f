// Package app runs the rock/paper/scissors game loop.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/handgame/internal/capture"
	"github.com/ayusman/handgame/internal/detector"
	"github.com/ayusman/handgame/internal/display"
	"github.com/ayusman/handgame/internal/game"
	"github.com/ayusman/handgame/internal/metrics"
	"github.com/ayusman/handgame/internal/store"
)

// ErrCaptureFailed is returned by Run when the camera stops delivering frames.
var ErrCaptureFailed = errors.New("failed to grab frame")

// DefaultKeyDelay is how long each frame waits for keyboard input.
const DefaultKeyDelay = 5 * time.Millisecond

// commandQueueSize bounds commands queued from outside the loop.
const commandQueueSize = 8

// Config holds the collaborators and options for the game loop.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Surface  display.Surface
	Engine   *game.Engine

	// Store records resolved rounds under SessionID when set.
	Store     *store.Store
	SessionID string
	// Metrics records loop counters when set.
	Metrics *metrics.Manager
	Logger  *slog.Logger

	// Mirror flips each frame horizontally before detection.
	Mirror bool
	// KeyDelay is passed to Surface.WaitKey every frame.
	KeyDelay time.Duration
	// PublishFrames keeps a JPEG of the latest annotated frame for LatestFrame.
	PublishFrames bool
	// OnResolved is called from the loop after each resolved round.
	OnResolved func(r game.Result, score game.Score)
	// Clock overrides time.Now.
	Clock func() time.Time
}

// App is the game loop. Round state is owned by the goroutine calling Run;
// other goroutines interact through Send, Snapshot and LatestFrame.
type App struct {
	config   Config
	logger   *slog.Logger
	commands chan game.Command

	// Loop-owned.
	state game.State
	score game.Score

	mu       sync.RWMutex
	snapshot game.Snapshot
	frame    []byte
}

// New creates an App with the given configuration.
func New(config Config) *App {
	if config.KeyDelay <= 0 {
		config.KeyDelay = DefaultKeyDelay
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &App{
		config:   config,
		logger:   logger,
		commands: make(chan game.Command, commandQueueSize),
		state:    game.NewState(),
		snapshot: game.NewSnapshot(game.NewState(), game.Score{}),
	}
}

// Send queues a command for the loop. It never blocks; when the queue is
// full the command is dropped and false is returned.
func (a *App) Send(cmd game.Command) bool {
	select {
	case a.commands <- cmd:
		return true
	default:
		return false
	}
}

// Snapshot returns the most recently published game view.
func (a *App) Snapshot() game.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// LatestFrame returns the last annotated frame as JPEG, if frames are published.
func (a *App) LatestFrame() ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frame, a.frame != nil
}

// SessionID returns the history session the loop records into.
func (a *App) SessionID() string {
	return a.config.SessionID
}

func (a *App) publish(jpeg []byte) {
	snap := game.NewSnapshot(a.state, a.score)

	a.mu.Lock()
	a.snapshot = snap
	if jpeg != nil {
		a.frame = jpeg
	}
	a.mu.Unlock()
}
