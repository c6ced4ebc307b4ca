package dashboard

import (
	"sync"
	"time"
)

// View is the presentation state of one dashboard process: what the user has
// selected or toggled, plus the clock of the last tick.
type View struct {
	SelectedDevice int64     `json:"selected_device,omitempty"`
	DarkMode       bool      `json:"dark_mode"`
	ShowSettings   bool      `json:"show_settings"`
	Flash          string    `json:"flash,omitempty"`
	FlashError     bool      `json:"flash_error,omitempty"`
	Now            time.Time `json:"now"`
}

// State owns a View. All mutation goes through its methods; readers get
// copies from Snapshot.
type State struct {
	mu sync.Mutex
	v  View
}

func NewState(now time.Time) *State {
	return &State{v: View{Now: now}}
}

func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

func (s *State) update(fn func(v *View)) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.v)
	return s.v
}

// Tick only overwrites the clock, so repeated ticks never accumulate.
func (s *State) Tick(now time.Time) View {
	return s.update(func(v *View) { v.Now = now })
}

// SelectDevice toggles the selection when the same device is picked twice.
func (s *State) SelectDevice(id int64) View {
	return s.update(func(v *View) {
		if v.SelectedDevice == id {
			v.SelectedDevice = 0
			return
		}
		v.SelectedDevice = id
	})
}

func (s *State) ToggleDarkMode() View {
	return s.update(func(v *View) { v.DarkMode = !v.DarkMode })
}

func (s *State) OpenSettings() View {
	return s.update(func(v *View) {
		v.ShowSettings = true
		v.Flash, v.FlashError = "", false
	})
}

func (s *State) CloseSettings() View {
	return s.update(func(v *View) { v.ShowSettings = false })
}

func (s *State) SettingsSaved(msg string) View {
	return s.update(func(v *View) {
		v.ShowSettings = false
		v.Flash, v.FlashError = msg, false
	})
}

// SettingsRejected keeps the dialog open so the user can correct the input.
func (s *State) SettingsRejected(msg string) View {
	return s.update(func(v *View) {
		v.ShowSettings = true
		v.Flash, v.FlashError = msg, true
	})
}

// ClearFlashIf clears the flash only while it is still the one the caller
// rendered. A newer flash set in between survives.
func (s *State) ClearFlashIf(shown View) View {
	return s.update(func(v *View) {
		if v.Flash == shown.Flash && v.FlashError == shown.FlashError {
			v.Flash, v.FlashError = "", false
		}
	})
}
