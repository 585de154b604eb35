// Package controller owns the dashboard's view state machine. Reduce is the
// pure transition function; Controller is the imperative shell that awaits the
// press service and applies one action per step.
package controller

import "presshealth/domain/press"

// View is the screen currently shown; exactly one is active
type View int

const (
	ViewInitial View = iota
	ViewPressSelection
	ViewMainApp
)

func (v View) String() string {
	switch v {
	case ViewInitial:
		return "Initial"
	case ViewPressSelection:
		return "PressSelection"
	case ViewMainApp:
		return "MainApp"
	default:
		return "Unknown"
	}
}

// AppState is the whole process-local dashboard state
type AppState struct {
	View               View
	Filename           string
	Upload             *press.UploadResult
	PressData          *press.PressData
	IsMultiPress       bool
	SelectedSN         int
	SelectedSessionKey string
	Message            string
	Loading            bool
}

// InitialState is the state at startup and after a reset
func InitialState() AppState {
	return AppState{View: ViewInitial}
}

// CanGoBack reports whether the back transition is reachable
func (s AppState) CanGoBack() bool {
	return s.View == ViewMainApp && s.IsMultiPress
}

// HasPress reports whether sn is listed in the multi-press summary
func (s AppState) HasPress(sn int) bool {
	if s.Upload == nil {
		return false
	}
	for _, p := range s.Upload.Summary {
		if p.SN == sn {
			return true
		}
	}
	return false
}

// SessionRows returns the rows of a session of the loaded press
func (s AppState) SessionRows(key string) ([]press.Row, bool) {
	if s.View != ViewMainApp {
		return nil, false
	}
	return s.PressData.Session(key)
}
