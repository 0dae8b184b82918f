// Package tray provides a system tray menu for the game.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handgame/internal/game"
)

// Tray is the system tray menu. It shows the last result and session score
// and offers restart and quit.
type Tray struct {
	onRestart func()
	onQuit    func()
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuLast  *systray.MenuItem
	menuScore *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnRestart sets the callback for the restart menu item.
func (t *Tray) OnRestart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRestart = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Start registers the tray without taking over the main thread, which the
// game window needs for its own event loop.
func (t *Tray) Start() {
	systray.Register(t.onReady, t.onExit)
}

// Stop removes the tray icon.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("RPS")
	systray.SetTooltip("Rock, Paper, Scissors")

	t.mu.Lock()
	t.menuLast = systray.AddMenuItem(lastTitle(nil), "Last round")
	t.menuLast.Disable()
	t.menuScore = systray.AddMenuItem(scoreTitle(game.Score{}), "Session score")
	t.menuScore.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuRestart := systray.AddMenuItem("Restart round", "Start a new round")
	menuQuit := systray.AddMenuItem("Quit", "Quit the game")

	go func() {
		for {
			select {
			case <-menuRestart.ClickedCh:
				t.handleRestart()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleRestart() {
	t.mu.RLock()
	callback := t.onRestart
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetLastResult updates the last result and score items. It is safe to call
// before the tray is ready.
func (t *Tray) SetLastResult(r game.Result, score game.Score) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(&r))
	}
	if t.menuScore != nil {
		t.menuScore.SetTitle(scoreTitle(score))
	}
}

func lastTitle(r *game.Result) string {
	if r == nil {
		return "Last: none"
	}
	return fmt.Sprintf("Last: %s vs %s, %s", r.Player, r.Computer, r.Outcome.Message())
}

func scoreTitle(s game.Score) string {
	return fmt.Sprintf("Score: %d-%d (ties %d)", s.Wins, s.Losses, s.Ties)
}
