package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ayusman/handgame/internal/app"
	"github.com/ayusman/handgame/internal/capture"
	"github.com/ayusman/handgame/internal/config"
	"github.com/ayusman/handgame/internal/detector"
	"github.com/ayusman/handgame/internal/display"
	"github.com/ayusman/handgame/internal/game"
	"github.com/ayusman/handgame/internal/gesture"
	"github.com/ayusman/handgame/internal/metrics"
	"github.com/ayusman/handgame/internal/server"
	"github.com/ayusman/handgame/internal/store"
	"github.com/ayusman/handgame/internal/tray"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "handgame: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, sessionID, err := openHistory(cfg.DBPath)
	if err != nil {
		logger.Warn("round history unavailable, playing without it", "error", err)
	}
	if st != nil {
		defer st.Close()
		defer func() {
			if err := st.Sessions().End(sessionID); err != nil {
				logger.Warn("end session", "error", err)
			}
		}()
		logger.Info("recording history", "db", st.Path(), "session", sessionID)
	}

	m := metrics.NewManager()

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
	}

	hold := time.Duration(cfg.HoldMS) * time.Millisecond
	a := app.New(app.Config{
		Camera: capture.NewCamera(capture.Config{
			DeviceID: cfg.CameraID,
			Width:    cfg.FrameWidth,
			Height:   cfg.FrameHeight,
			FPS:      cfg.FPS,
		}),
		Detector:      newDetector(cfg, logger),
		Surface:       display.NewWindow(cfg.WindowTitle),
		Engine:        game.NewEngine(gesture.Classifier{}, game.NewRandomChooser(cfg.Seed), hold),
		Store:         st,
		SessionID:     sessionID,
		Metrics:       m,
		Logger:        logger,
		Mirror:        cfg.Mirror,
		KeyDelay:      time.Duration(cfg.KeyDelayMS) * time.Millisecond,
		PublishFrames: cfg.Addr != "",
		OnResolved: func(r game.Result, score game.Score) {
			if tr != nil {
				tr.SetLastResult(r, score)
			}
		},
	})

	if tr != nil {
		tr.OnRestart(func() { a.Send(game.CommandRestart) })
		tr.OnQuit(func() { a.Send(game.CommandQuit) })
		tr.Start()
		defer tr.Stop()
	}

	if cfg.Addr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		srv := server.New(server.Config{
			Game:      a,
			Store:     st,
			SessionID: sessionID,
			Metrics:   m.Handler(),
			Logger:    logger,
		})
		go func() {
			if err := srv.Run(srvCtx, cfg.Addr); err != nil {
				logger.Error("http server failed", "error", err)
			}
		}()
	}

	fmt.Println("Show your hand gesture for Rock, Paper, or Scissors!")
	fmt.Printf("Hold it for %v. Press 'r' to play again, 'q' to quit.\n", hold)

	if err := a.Run(ctx); err != nil {
		if errors.Is(err, app.ErrCaptureFailed) {
			fmt.Fprintln(os.Stderr, "Failed to grab frame")
		}
		logger.Error("game exited", "error", err)
		return 1
	}
	return 0
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// newDetector starts the MediaPipe detector, falling back to one that never
// sees a hand so the window still opens without the Python service.
func newDetector(cfg *config.Config, logger *slog.Logger) detector.Detector {
	d, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.MaxHands,
		MinConfidence:   cfg.MinConfidence,
		MinTrackingConf: cfg.MinTrackingConfidence,
		ScriptPath:      cfg.MediaPipeScript,
		Python:          cfg.Python,
	})
	if err != nil {
		logger.Warn("hand detection unavailable", "error", err)
		return detector.NewMockDetector()
	}
	return d
}

// openHistory opens the round database and starts a session. It returns a nil
// store when dbPath is empty.
func openHistory(dbPath string) (*store.Store, string, error) {
	if dbPath == "" {
		return nil, "", nil
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, "", fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(dbPath)
	if err != nil {
		return nil, "", err
	}
	sess, err := st.Sessions().Start()
	if err != nil {
		st.Close()
		return nil, "", fmt.Errorf("start session: %w", err)
	}
	return st, sess.ID, nil
}
