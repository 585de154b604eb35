package controller

import "fmt"

// Reduce applies one action to a state and returns the next state. Actions that
// do not apply to the current view, or that name nothing selectable, return the
// state unchanged.
func Reduce(s AppState, a Action) AppState {
	switch a.Kind {
	case ActionUploadStarted:
		if s.View != ViewInitial {
			return s
		}
		next := InitialState()
		next.Filename = a.Filename
		next.Loading = true
		return next

	case ActionUploadSucceeded:
		if s.View != ViewInitial || a.Upload == nil {
			return s
		}
		next := InitialState()
		next.Filename = a.Upload.Filename
		if next.Filename == "" {
			next.Filename = s.Filename
		}
		next.Upload = a.Upload
		if a.Upload.IsMultiPress() {
			next.View = ViewPressSelection
			next.IsMultiPress = true
			return next
		}
		next.View = ViewMainApp
		next.PressData = a.Upload.PressData()
		next.SelectedSN = a.Upload.SN
		next.SelectedSessionKey = next.PressData.FirstSessionKey()
		return next

	case ActionUploadFailed:
		if s.View != ViewInitial {
			return s
		}
		next := InitialState()
		next.Message = failureMessage("Upload failed", a.Err)
		return next

	case ActionPressChosen:
		if s.View != ViewPressSelection || !s.HasPress(a.SN) {
			return s
		}
		s.SelectedSN = a.SN
		s.Loading = true
		s.Message = ""
		return s

	case ActionPressLoaded:
		if s.View != ViewPressSelection || a.PressData == nil || a.PressData.SN != s.SelectedSN {
			return s
		}
		s.View = ViewMainApp
		s.PressData = a.PressData
		s.SelectedSessionKey = a.PressData.FirstSessionKey()
		s.Loading = false
		return s

	case ActionPressLoadFailed:
		if s.View != ViewPressSelection {
			return s
		}
		// The failed upload stays named so the initial view can offer it again.
		next := InitialState()
		next.Filename = s.Filename
		next.Upload = s.Upload
		next.Message = failureMessage("Loading press data failed", a.Err)
		return next

	case ActionSessionChosen:
		if _, ok := s.SessionRows(a.SessionKey); !ok {
			return s
		}
		s.SelectedSessionKey = a.SessionKey
		return s

	case ActionBack:
		if !s.CanGoBack() {
			return s
		}
		s.View = ViewPressSelection
		s.PressData = nil
		s.SelectedSN = 0
		s.SelectedSessionKey = ""
		s.Message = ""
		return s

	case ActionReset:
		return InitialState()
	}
	return s
}

func failureMessage(prefix string, err error) string {
	if err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, err)
}
