// Package tray provides the system tray menu for neonorb: session status,
// the sphere's current scale and color, pause/resume and quit.
package tray

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/ayusman/neonorb/internal/gesture"
)

// RefreshInterval is how often the status lines are updated.
const RefreshInterval = 250 * time.Millisecond

// Source supplies what the tray displays.
type Source interface {
	Snapshot() gesture.Snapshot
	Status() string
}

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onViewer func()
	onQuit   func()
	enabled  bool
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuStatus *systray.MenuItem
	menuSphere *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when processing is paused or resumed.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnViewer sets the callback function to be called when the viewer menu item is clicked.
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, unblocking Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("NeonOrb")
	systray.SetTooltip("NeonOrb gesture sphere")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(ToggleTitle(true), "Pause or resume hand tracking")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem("Status: starting", "Hand tracking status")
	t.menuStatus.Disable()
	t.menuSphere = systray.AddMenuItem(SphereLine(gesture.DefaultState().CurrentScale, gesture.InitialHue), "Sphere parameters")
	t.menuSphere.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the sphere in the browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit NeonOrb")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuViewer.ClickedCh:
				t.handleViewer()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(ToggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleViewer handles the viewer menu item click.
func (t *Tray) handleViewer() {
	t.mu.RLock()
	callback := t.onViewer
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Watch refreshes the status lines from source until ctx is done.
func (t *Tray) Watch(ctx context.Context, source Source) {
	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Update(source.Status(), source.Snapshot())
		}
	}
}

// Update sets the status and sphere lines.
func (t *Tray) Update(status string, snap gesture.Snapshot) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		t.menuStatus.SetTitle("Status: " + status)
	}
	if t.menuSphere != nil {
		t.menuSphere.SetTitle(SphereLine(snap.Scale, snap.Color))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// ToggleTitle is the toggle item's label for the given state.
func ToggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Paused"
}

// SphereLine formats the sphere's scale and color for the menu.
func SphereLine(scale float64, c gesture.Color) string {
	return fmt.Sprintf("Scale %.2fx  %s", scale, c.Hex())
}
