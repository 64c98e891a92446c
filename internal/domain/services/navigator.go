package services

import (
	"sync"
	"time"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// Keys understood by Navigator.HandleKey, named after DOM KeyboardEvent.key values
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
	KeySpaceName  = "Space"
	KeyEscape     = "Escape"
	KeyF11        = "F11"
)

// NavigatorOptions tunes the control auto-hide behavior
type NavigatorOptions struct {
	AutoHide      time.Duration
	TopThreshold  int
	LeftThreshold int
	StartLocked   bool
}

// DefaultNavigatorOptions hides controls after 3s, activity zones are the
// top 96px and the left 180px, and controls start locked.
func DefaultNavigatorOptions() NavigatorOptions {
	return NavigatorOptionsFromConfig(entities.NavigationConfig{StartLocked: true})
}

// NavigatorOptionsFromConfig maps the navigation config section
func NavigatorOptionsFromConfig(cfg entities.NavigationConfig) NavigatorOptions {
	return NavigatorOptions{
		AutoHide:      cfg.GetAutoHide(),
		TopThreshold:  cfg.GetTopThreshold(),
		LeftThreshold: cfg.GetLeftThreshold(),
		StartLocked:   cfg.StartLocked,
	}
}

// Navigator is the navigation state machine of a slide deck.
//
// Inputs arrive from the connection goroutine and hide-timer callbacks arrive on
// their own goroutine, so all state sits behind mu. At most one hide timer is
// alive: every cancel bumps generation and a callback carrying an older
// generation does nothing.
type Navigator struct {
	mu         sync.Mutex
	clock      ports.Clock
	opts       NavigatorOptions
	state      entities.NavigationState
	timer      ports.Timer
	generation uint64
	closed     bool
	listeners  []func(entities.NavigationState)
}

var _ ports.Navigator = (*Navigator)(nil)

// NewNavigator creates a navigator over totalSlides slides positioned on the intro slide
func NewNavigator(totalSlides int, clock ports.Clock, opts NavigatorOptions) *Navigator {
	if totalSlides < 1 {
		totalSlides = 1
	}
	if clock == nil {
		clock = ports.NewRealClock()
	}
	if opts.AutoHide <= 0 {
		opts.AutoHide = DefaultNavigatorOptions().AutoHide
	}

	n := &Navigator{
		clock: clock,
		opts:  opts,
		state: entities.NavigationState{
			TotalSlides:     totalSlides,
			ControlsVisible: true,
			ControlsLocked:  opts.StartLocked,
		},
	}

	n.mu.Lock()
	n.scheduleHideLocked()
	n.mu.Unlock()

	return n
}

// State returns a snapshot of the current state
func (n *Navigator) State() entities.NavigationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// OnChange registers fn to receive every state change. fn runs outside the
// navigator lock and may be called from the timer goroutine.
func (n *Navigator) OnChange(fn func(entities.NavigationState)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.listeners = append(n.listeners, fn)
	}
}

// GoNext moves forward, stopping at the last slide
func (n *Navigator) GoNext() {
	n.update(n.nextLocked)
}

// GoPrevious moves back, stopping at the intro slide
func (n *Navigator) GoPrevious() {
	n.update(n.previousLocked)
}

// GoToSlide jumps to a 1-based slide number. Numbers outside 1..total are rejected.
func (n *Navigator) GoToSlide(num int) bool {
	accepted := false
	n.update(func() bool {
		var changed bool
		accepted, changed = n.goToLocked(num)
		return changed
	})
	return accepted
}

// ToggleFullscreen enters or leaves fullscreen
func (n *Navigator) ToggleFullscreen() {
	n.update(func() bool {
		n.state.Fullscreen = !n.state.Fullscreen
		n.showControlsLocked()
		return true
	})
}

// SetFullscreen records a fullscreen change reported by the display
func (n *Navigator) SetFullscreen(fullscreen bool) {
	n.update(func() bool {
		if n.state.Fullscreen == fullscreen {
			return false
		}
		n.state.Fullscreen = fullscreen
		n.showControlsLocked()
		return true
	})
}

// ToggleControlsLock pins the controls visible, or releases them to auto-hide
func (n *Navigator) ToggleControlsLock() {
	n.update(func() bool {
		n.state.ControlsLocked = !n.state.ControlsLocked
		n.state.ControlsVisible = true
		if n.state.ControlsLocked {
			n.cancelHideLocked()
		} else {
			n.scheduleHideLocked()
		}
		return true
	})
}

// PointerMoved reports pointer activity. Only movement in the top or left
// activity zone counts; other movement leaves the pending hide untouched.
func (n *Navigator) PointerMoved(x, y int) {
	if y >= n.opts.TopThreshold && x >= n.opts.LeftThreshold {
		return
	}
	n.Interact()
}

// Interact reports explicit interaction with the controls
func (n *Navigator) Interact() {
	n.update(n.showControlsLocked)
}

// BeginEditingSlideNumber enters slide number editing. Keyboard navigation
// is suspended and the controls stay visible until the edit ends.
func (n *Navigator) BeginEditingSlideNumber() {
	n.update(func() bool {
		if n.state.EditingSlideNumber {
			return false
		}
		n.state.EditingSlideNumber = true
		n.state.ControlsVisible = true
		n.cancelHideLocked()
		return true
	})
}

// CommitSlideNumberEdit leaves editing and jumps to num when it is in bounds.
// It reports whether the jump was accepted.
func (n *Navigator) CommitSlideNumberEdit(num int) bool {
	accepted := false
	n.update(func() bool {
		if !n.state.EditingSlideNumber {
			return false
		}
		n.state.EditingSlideNumber = false
		accepted, _ = n.goToLocked(num)
		n.scheduleHideLocked()
		return true
	})
	return accepted
}

// CancelSlideNumberEdit leaves editing without moving
func (n *Navigator) CancelSlideNumberEdit() {
	n.update(func() bool {
		if !n.state.EditingSlideNumber {
			return false
		}
		n.state.EditingSlideNumber = false
		n.scheduleHideLocked()
		return true
	})
}

// HandleKey applies the keyboard bindings. Keys are ignored while editing.
func (n *Navigator) HandleKey(key string) {
	n.update(func() bool {
		if n.state.EditingSlideNumber {
			return false
		}

		switch key {
		case KeyArrowRight, KeySpace, KeySpaceName:
			return n.nextLocked()
		case KeyArrowLeft:
			return n.previousLocked()
		case KeyEscape:
			if !n.state.Fullscreen {
				return false
			}
			n.state.Fullscreen = false
			n.showControlsLocked()
			return true
		case KeyF11:
			n.state.Fullscreen = !n.state.Fullscreen
			n.showControlsLocked()
			return true
		}
		return false
	})
}

// Close cancels the pending hide timer and drops listeners.
// Later inputs are ignored.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.cancelHideLocked()
	n.listeners = nil
}

// update runs fn under the lock and notifies listeners when it reports a change
func (n *Navigator) update(fn func() bool) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}

	if !fn() {
		n.mu.Unlock()
		return
	}

	n.state.Version++
	state := n.state
	listeners := make([]func(entities.NavigationState), len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

func (n *Navigator) nextLocked() bool {
	if n.state.Slide >= n.state.TotalSlides-1 {
		return false
	}
	n.state.Slide++
	return true
}

func (n *Navigator) previousLocked() bool {
	if n.state.Slide <= 0 {
		return false
	}
	n.state.Slide--
	return true
}

func (n *Navigator) goToLocked(num int) (accepted, changed bool) {
	if num < 1 || num > n.state.TotalSlides {
		return false, false
	}
	changed = n.state.Slide != num-1
	n.state.Slide = num - 1
	return true, changed
}

// showControlsLocked shows the controls and restarts the quiet interval
func (n *Navigator) showControlsLocked() bool {
	changed := !n.state.ControlsVisible
	n.state.ControlsVisible = true
	n.scheduleHideLocked()
	return changed
}

func (n *Navigator) cancelHideLocked() {
	n.generation++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// scheduleHideLocked replaces any pending timer. Nothing is scheduled while
// locked, editing or closed.
func (n *Navigator) scheduleHideLocked() {
	n.cancelHideLocked()
	if n.closed || n.state.ControlsLocked || n.state.EditingSlideNumber {
		return
	}

	gen := n.generation
	n.timer = n.clock.AfterFunc(n.opts.AutoHide, func() { n.hide(gen) })
}

func (n *Navigator) hide(gen uint64) {
	n.update(func() bool {
		if gen != n.generation || n.state.ControlsLocked || n.state.EditingSlideNumber {
			return false
		}
		n.timer = nil
		if !n.state.ControlsVisible {
			return false
		}
		n.state.ControlsVisible = false
		return true
	})
}
