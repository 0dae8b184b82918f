package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handgame/internal/detector"
	"github.com/ayusman/handgame/internal/display"
	"github.com/ayusman/handgame/internal/game"
	"github.com/ayusman/handgame/internal/store"
)

// Run opens the camera and plays rounds until the player quits, ctx is
// cancelled, or a frame cannot be captured. The camera, detector and surface
// are closed on every exit path.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		a.closeSurface()
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.shutdown()

	a.logger.Info("game started",
		"hold", a.config.Engine.HoldDuration(),
		"keys", "r=restart q=quit",
	)
	a.publish(nil)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("game stopped", "reason", ctx.Err())
			return nil
		default:
		}

		cmd, err := a.processFrame()
		if err != nil {
			a.logger.Error("capture failed, exiting", "error", err)
			return err
		}
		if cmd == game.CommandQuit {
			a.logger.Info("quit requested")
			return nil
		}
	}
}

// processFrame runs one capture, detect, step, render and input cycle.
func (a *App) processFrame() (game.Command, error) {
	start := time.Now()

	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		a.config.Metrics.RecordCaptureFailure()
		return game.CommandNone, fmt.Errorf("%w: %w", ErrCaptureFailed, err)
	}
	defer frame.Close()

	if a.config.Mirror {
		if err := gocv.Flip(*frame, frame, 1); err != nil {
			a.logger.Debug("mirror frame", "error", err)
		}
	}

	hands := a.detect(frame)
	var hand *detector.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
		a.config.Metrics.RecordHand()
	}

	next, ev := a.config.Engine.Step(a.state, game.Input{Hand: hand, Now: a.config.Clock()})
	a.state = next
	a.handleEvent(ev)

	if err := display.DrawHands(frame, hands); err != nil {
		a.logger.Debug("draw hands", "error", err)
	}
	if err := display.DrawStatus(frame, display.StatusLines(a.state, a.score, frame.Rows())); err != nil {
		a.logger.Debug("draw status", "error", err)
	}
	if err := a.config.Surface.Show(frame); err != nil {
		a.logger.Warn("show frame", "error", err)
	}

	var jpeg []byte
	if a.config.PublishFrames {
		jpeg = encodeJPEG(frame)
	}
	a.publish(jpeg)
	a.config.Metrics.RecordFrame(time.Since(start))

	cmd := display.CommandForKey(a.config.Surface.WaitKey(a.config.KeyDelay))
	if cmd == game.CommandNone {
		cmd = a.queuedCommand()
	}
	if cmd == game.CommandRestart {
		a.state = a.config.Engine.Restart(a.state)
		a.logger.Info("round restarted")
		a.publish(nil)
	}
	return cmd, nil
}

// detect returns the hands in frame. Detection is skipped once the round is
// resolved, and detector errors count as an empty frame.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	if a.state.Phase == game.Resolved || a.config.Detector == nil {
		return nil
	}

	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		a.config.Metrics.RecordDetectError()
		a.logger.Warn("hand detection failed", "error", err)
		return nil
	}
	return hands
}

func (a *App) handleEvent(ev game.Event) {
	switch ev {
	case game.EventHoldStarted:
		a.logger.Debug("hand detected, holding", "hold", a.config.Engine.HoldDuration())

	case game.EventUnrecognized:
		a.config.Metrics.RecordGesture(game.None.String())
		a.logger.Info("gesture not recognized, show rock, paper or scissors")

	case game.EventResolved:
		r := a.state.Result
		a.score.Add(r.Outcome)
		a.config.Metrics.RecordGesture(r.Player.String())
		a.config.Metrics.RecordRound(r.Outcome.String())
		a.logger.Info("round resolved",
			"player", r.Player,
			"computer", r.Computer,
			"outcome", r.Outcome,
		)
		a.record(r)
		if a.config.OnResolved != nil {
			a.config.OnResolved(r, a.score)
		}
	}
}

// record stores a resolved round. History is best effort and never stops play.
func (a *App) record(r game.Result) {
	if a.config.Store == nil || a.config.SessionID == "" {
		return
	}

	err := a.config.Store.Rounds().Create(&store.Round{
		SessionID: a.config.SessionID,
		Player:    r.Player.String(),
		Computer:  r.Computer.String(),
		Outcome:   r.Outcome.String(),
		PlayedAt:  r.At,
	})
	if err != nil {
		a.logger.Warn("save round", "error", err)
	}
}

func (a *App) queuedCommand() game.Command {
	select {
	case cmd := <-a.commands:
		return cmd
	default:
		return game.CommandNone
	}
}

func encodeJPEG(frame *gocv.Mat) []byte {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil
	}
	defer buf.Close()
	// GetBytes aliases the native buffer freed by Close.
	return bytes.Clone(buf.GetBytes())
}

func (a *App) shutdown() {
	var errs []error
	if err := a.config.Camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	if a.config.Detector != nil {
		if err := a.config.Detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("shutdown", "error", err)
	}
	a.closeSurface()
}

func (a *App) closeSurface() {
	if err := a.config.Surface.Close(); err != nil {
		a.logger.Warn("close window", "error", err)
	}
}
