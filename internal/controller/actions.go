package controller

import "presshealth/domain/press"

// ActionKind enumerates everything that can change AppState
type ActionKind int

const (
	ActionUploadStarted ActionKind = iota
	ActionUploadSucceeded
	ActionUploadFailed
	ActionPressChosen
	ActionPressLoaded
	ActionPressLoadFailed
	ActionSessionChosen
	ActionBack
	ActionReset
)

var actionNames = [...]string{
	ActionUploadStarted:   "UploadStarted",
	ActionUploadSucceeded: "UploadSucceeded",
	ActionUploadFailed:    "UploadFailed",
	ActionPressChosen:     "PressChosen",
	ActionPressLoaded:     "PressLoaded",
	ActionPressLoadFailed: "PressLoadFailed",
	ActionSessionChosen:   "SessionChosen",
	ActionBack:            "Back",
	ActionReset:           "Reset",
}

func (k ActionKind) String() string {
	if k >= 0 && int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "Unknown"
}

// Action is one event with the payload its kind needs
type Action struct {
	Kind       ActionKind
	Filename   string
	Upload     *press.UploadResult
	SN         int
	PressData  *press.PressData
	SessionKey string
	Err        error
}

func UploadStarted(filename string) Action {
	return Action{Kind: ActionUploadStarted, Filename: filename}
}

func UploadSucceeded(result *press.UploadResult) Action {
	return Action{Kind: ActionUploadSucceeded, Upload: result}
}

func UploadFailed(err error) Action {
	return Action{Kind: ActionUploadFailed, Err: err}
}

func PressChosen(sn int) Action {
	return Action{Kind: ActionPressChosen, SN: sn}
}

func PressLoaded(data *press.PressData) Action {
	return Action{Kind: ActionPressLoaded, PressData: data}
}

func PressLoadFailed(err error) Action {
	return Action{Kind: ActionPressLoadFailed, Err: err}
}

func SessionChosen(key string) Action {
	return Action{Kind: ActionSessionChosen, SessionKey: key}
}

func Back() Action {
	return Action{Kind: ActionBack}
}

func Reset() Action {
	return Action{Kind: ActionReset}
}
