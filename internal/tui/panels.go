package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"presshealth/domain/chart"
	"presshealth/ports"
)

// panelsChangedMsg tells the program a panel was drawn or removed
type panelsChangedMsg struct{}

// PanelStore is the terminal's PanelRenderer. It keeps its own copy of every
// panel so View never has to wait on the controller.
type PanelStore struct {
	mu     sync.RWMutex
	panels map[string]chart.Panel
	notify func(tea.Msg)
}

// NewPanelStore creates an empty store
func NewPanelStore() *PanelStore {
	return &PanelStore{panels: make(map[string]chart.Panel)}
}

var _ ports.PanelRenderer = (*PanelStore)(nil)

// SetNotify sets the callback used to wake the program; it must not block
func (s *PanelStore) SetNotify(fn func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func (s *PanelStore) RenderPanel(p chart.Panel) {
	s.mu.Lock()
	s.panels[p.SessionKey] = p
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify(panelsChangedMsg{})
	}
}

func (s *PanelStore) RemovePanel(sessionKey string) {
	s.mu.Lock()
	delete(s.panels, sessionKey)
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify(panelsChangedMsg{})
	}
}

// Get returns the panel of a session
func (s *PanelStore) Get(sessionKey string) (chart.Panel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panels[sessionKey]
	return p, ok
}

// Ordered returns the panels whose keys appear in keys, in that order
func (s *PanelStore) Ordered(keys []string) []chart.Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chart.Panel, 0, len(s.panels))
	for _, k := range keys {
		if p, ok := s.panels[k]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Len is the number of stored panels
func (s *PanelStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.panels)
}
