package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allActions() []Action {
	return []Action{
		UploadStarted("f.csv"),
		UploadSucceeded(singleUpload()),
		UploadSucceeded(multiUpload()),
		UploadFailed(errors.New("boom")),
		PressChosen(4),
		PressChosen(77),
		PressLoaded(samplePressData()),
		PressLoadFailed(errors.New("down")),
		SessionChosen(sessionB),
		SessionChosen("nope"),
		Back(),
		Reset(),
	}
}

func TestReduceAlwaysLandsInExactlyOneView(t *testing.T) {
	valid := map[View]bool{ViewInitial: true, ViewPressSelection: true, ViewMainApp: true}

	// Walk every two-step sequence from every reachable start.
	starts := []AppState{
		InitialState(),
		Reduce(InitialState(), UploadSucceeded(singleUpload())),
		Reduce(InitialState(), UploadSucceeded(multiUpload())),
	}
	for _, start := range starts {
		for _, a := range allActions() {
			s1 := Reduce(start, a)
			assert.True(t, valid[s1.View], "%s from %s", a.Kind, start.View)
			for _, b := range allActions() {
				s2 := Reduce(s1, b)
				assert.True(t, valid[s2.View], "%s then %s from %s", a.Kind, b.Kind, start.View)
				if s2.View == ViewMainApp {
					assert.NotNil(t, s2.PressData)
				}
				if s2.View == ViewPressSelection {
					assert.Nil(t, s2.PressData)
					assert.True(t, s2.IsMultiPress)
				}
			}
		}
	}
}

func TestReduceMultiPressUploadDoesNotSelectPress(t *testing.T) {
	s := Reduce(InitialState(), UploadStarted("multi.csv"))
	assert.True(t, s.Loading)

	s = Reduce(s, UploadSucceeded(multiUpload()))
	assert.Equal(t, ViewPressSelection, s.View)
	assert.True(t, s.IsMultiPress)
	assert.Zero(t, s.SelectedSN)
	assert.Nil(t, s.PressData)
	assert.Empty(t, s.SelectedSessionKey)
	assert.False(t, s.Loading)
}

func TestReduceSinglePressUploadLandsInMainApp(t *testing.T) {
	s := Reduce(InitialState(), UploadSucceeded(singleUpload()))
	assert.Equal(t, ViewMainApp, s.View)
	assert.False(t, s.IsMultiPress)
	assert.Equal(t, 4, s.SelectedSN)
	assert.Equal(t, sessionA, s.SelectedSessionKey)
	assert.Equal(t, "single.csv", s.Filename)
}

func TestReduceBackOnlyForMultiPress(t *testing.T) {
	single := Reduce(InitialState(), UploadSucceeded(singleUpload()))
	assert.False(t, single.CanGoBack())
	assert.Equal(t, single, Reduce(single, Back()))

	multi := Reduce(InitialState(), UploadSucceeded(multiUpload()))
	multi = Reduce(multi, PressChosen(4))
	multi = Reduce(multi, PressLoaded(samplePressData()))
	assert.Equal(t, ViewMainApp, multi.View)
	assert.True(t, multi.CanGoBack())

	back := Reduce(multi, Back())
	assert.Equal(t, ViewPressSelection, back.View)
	assert.Zero(t, back.SelectedSN)
	assert.Nil(t, back.PressData)
	assert.Empty(t, back.SelectedSessionKey)
	assert.Equal(t, multi.Upload, back.Upload)

	// Back is not a transition out of PressSelection.
	assert.Equal(t, back, Reduce(back, Back()))
}

func TestReduceFailures(t *testing.T) {
	s := Reduce(InitialState(), UploadStarted("x.csv"))
	s = Reduce(s, UploadFailed(errors.New("bad header")))
	assert.Equal(t, ViewInitial, s.View)
	assert.Equal(t, "Upload failed: bad header", s.Message)
	assert.Empty(t, s.Filename)

	sel := Reduce(InitialState(), UploadSucceeded(multiUpload()))
	sel = Reduce(sel, PressChosen(9))
	assert.Equal(t, 9, sel.SelectedSN)
	failed := Reduce(sel, PressLoadFailed(errors.New("timeout")))
	assert.Equal(t, ViewInitial, failed.View)
	assert.Zero(t, failed.SelectedSN)
	assert.False(t, failed.IsMultiPress)
	assert.False(t, failed.Loading)
	assert.Nil(t, failed.PressData)
	assert.Equal(t, "Loading press data failed: timeout", failed.Message)
	assert.Equal(t, sel.Filename, failed.Filename)
	assert.Equal(t, sel.Upload, failed.Upload)

	// A new upload starts clean.
	again := Reduce(failed, UploadStarted("y.csv"))
	assert.Empty(t, again.Message)
	assert.Nil(t, again.Upload)
}

func TestReduceIgnoresMissingSelection(t *testing.T) {
	sel := Reduce(InitialState(), UploadSucceeded(multiUpload()))
	assert.Equal(t, sel, Reduce(sel, PressChosen(0)))
	assert.Equal(t, sel, Reduce(sel, PressChosen(123)))

	main := Reduce(InitialState(), UploadSucceeded(singleUpload()))
	assert.Equal(t, main, Reduce(main, SessionChosen("")))
	assert.Equal(t, main, Reduce(main, SessionChosen("2030-01-01 00:00:00")))

	chosen := Reduce(main, SessionChosen(sessionB))
	assert.Equal(t, sessionB, chosen.SelectedSessionKey)
}

func TestReduceDropsPressDataForAnotherPress(t *testing.T) {
	sel := Reduce(InitialState(), UploadSucceeded(multiUpload()))
	sel = Reduce(sel, PressChosen(9))
	// Data for SN 4 arrives while SN 9 is selected.
	assert.Equal(t, sel, Reduce(sel, PressLoaded(samplePressData())))
}

func TestReduceResetFromAnyView(t *testing.T) {
	for _, a := range allActions() {
		s := Reduce(Reduce(InitialState(), UploadSucceeded(multiUpload())), a)
		assert.Equal(t, InitialState(), Reduce(s, Reset()))
	}
	assert.Equal(t, InitialState(), Reduce(Reduce(InitialState(), UploadSucceeded(singleUpload())), Reset()))
}

func TestViewAndActionNames(t *testing.T) {
	assert.Equal(t, "PressSelection", ViewPressSelection.String())
	assert.Equal(t, "SessionChosen", ActionSessionChosen.String())
	assert.Equal(t, "Unknown", ActionKind(99).String())
}
