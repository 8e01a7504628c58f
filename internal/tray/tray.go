// Package tray provides a system tray controller for the game:
// pause/resume, live score display and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray menu.
type Tray struct {
	onPause func(paused bool)
	onReset func()
	onQuit  func()
	paused  bool
	mu      sync.RWMutex

	// Menu items stored for later updates
	menuPause *systray.MenuItem
	menuScore *systray.MenuItem
	menuBest  *systray.MenuItem
}

// New creates a new Tray instance in the unpaused state.
func New() *Tray {
	return &Tray{}
}

// OnPause sets the callback invoked when the pause state is toggled.
func (t *Tray) OnPause(fn func(paused bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onPause = fn
}

// OnReset sets the callback invoked when the restart menu item is clicked.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnQuit sets the callback invoked when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. This function blocks until
// systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady sets up the menu structure once the tray is available.
func (t *Tray) onReady() {
	systray.SetTitle("Sarpa")
	systray.SetTooltip("Sarpa Hand-Controlled Snake")

	t.menuPause = systray.AddMenuItem("Pause", "Pause the game")
	menuReset := systray.AddMenuItem("Restart Game", "Start a new game")
	systray.AddSeparator()

	t.menuScore = systray.AddMenuItem("Score: 0", "Current score")
	t.menuScore.Disable()
	t.menuBest = systray.AddMenuItem("Best: -", "Best recorded score")
	t.menuBest.Disable()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Sarpa")

	go func() {
		for {
			select {
			case <-t.menuPause.ClickedCh:
				t.handlePause()
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

// handlePause toggles the pause state and notifies the callback.
func (t *Tray) handlePause() {
	t.mu.Lock()
	t.paused = !t.paused
	paused := t.paused

	if paused {
		t.menuPause.SetTitle("Resume")
	} else {
		t.menuPause.SetTitle("Pause")
	}

	callback := t.onPause
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(paused)
	}
}

// handleReset notifies the reset callback.
func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit notifies the quit callback and stops the tray.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetScore updates the current score display in the menu.
func (t *Tray) SetScore(score int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuScore != nil {
		t.menuScore.SetTitle(fmt.Sprintf("Score: %d", score))
	}
}

// SetBest updates the best score display in the menu.
func (t *Tray) SetBest(score int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuBest != nil {
		t.menuBest.SetTitle(fmt.Sprintf("Best: %d", score))
	}
}

// IsPaused returns the current pause state.
func (t *Tray) IsPaused() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.paused
}
