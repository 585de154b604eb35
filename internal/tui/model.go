// Package tui is the terminal client of the press dashboard. It hosts the
// view controller and renders its three views with bubbletea.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"presshealth/domain/health"
	"presshealth/internal/controller"
)

// actionDoneMsg reports that a controller call finished
type actionDoneMsg struct{ err error }

// item represents a selectable entry in a bubbles list
type item struct {
	title string
	desc  string
	key   string
	sn    int
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

// model is the bubbletea model around one controller
type model struct {
	ctx         context.Context
	ctrl        *controller.Controller
	panels      *PanelStore
	pathInput   textinput.Model
	pressList   list.Model
	sessionList list.Model
	spinner     spinner.Model
	isLoading   bool
	err         error
	view        controller.View
	width       int
	height      int
}

// newModel creates the model for a controller whose renderer is panels
func newModel(ctx context.Context, ctrl *controller.Controller, panels *PanelStore) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "path/to/export.csv or .xlsx"
	ti.Prompt = "File: "
	ti.Focus()

	pressList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	pressList.Title = "Select a Press"
	sessionList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	sessionList.Title = "Sessions"
	sessionList.SetShowHelp(false)

	return &model{
		ctx:         ctx,
		ctrl:        ctrl,
		panels:      panels,
		pathInput:   ti,
		pressList:   pressList,
		sessionList: sessionList,
		spinner:     s,
		view:        controller.ViewInitial,
	}
}

func uploadCmd(ctx context.Context, ctrl *controller.Controller, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			ctrl.Dispatch(controller.UploadFailed(err))
			return actionDoneMsg{err: err}
		}
		defer f.Close()
		return actionDoneMsg{err: ctrl.Upload(ctx, filepath.Base(path), f)}
	}
}

func selectPressCmd(ctx context.Context, ctrl *controller.Controller, sn int) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: ctrl.SelectPress(ctx, sn)}
	}
}

func selectSessionCmd(ctx context.Context, ctrl *controller.Controller, key string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: ctrl.SelectSession(ctx, key)}
	}
}

func renderSessionCmd(ctx context.Context, ctrl *controller.Controller, key string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: ctrl.RenderSession(ctx, key)}
	}
}

func toggleStatsCmd(ctx context.Context, ctrl *controller.Controller, key string) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: ctrl.ToggleErrorStats(ctx, key)}
	}
}

// Init starts the spinner and the text cursor
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textinput.Blink)
}

// Update is the event loop; every network call leaves it as a tea.Cmd and
// comes back as exactly one actionDoneMsg.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.pressList.SetSize(msg.Width-4, msg.Height-6)
		m.sessionList.SetSize(40, msg.Height-6)
		m.pathInput.Width = msg.Width - 10
		return m, nil

	case actionDoneMsg:
		m.isLoading = false
		m.err = msg.err
		m.sync()
		return m, nil

	case panelsChangedMsg:
		return m, nil

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.isLoading {
			return m, nil
		}
		if msg.String() == "esc" {
			m.ctrl.Reset()
			m.err = nil
			m.pathInput.Reset()
			m.pathInput.Focus()
			m.sync()
			return m, nil
		}
	}

	switch m.view {
	case controller.ViewInitial:
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			path := strings.TrimSpace(m.pathInput.Value())
			if path != "" {
				m.isLoading = true
				m.err = nil
				cmds = append(cmds, m.spinner.Tick, uploadCmd(m.ctx, m.ctrl, path))
			}
		}

	case controller.ViewPressSelection:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				if it, ok := m.pressList.SelectedItem().(item); ok {
					m.isLoading = true
					m.err = nil
					return m, tea.Batch(m.spinner.Tick, selectPressCmd(m.ctx, m.ctrl, it.sn))
				}
				return m, nil
			}
		}
		m.pressList, cmd = m.pressList.Update(msg)
		cmds = append(cmds, cmd)

	case controller.ViewMainApp:
		if key, ok := msg.(tea.KeyMsg); ok {
			if c, handled := m.handleMainKey(key.String()); handled {
				return m, c
			}
		}
		m.sessionList, cmd = m.sessionList.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleMainKey handles the MainApp shortcuts
func (m *model) handleMainKey(key string) (tea.Cmd, bool) {
	selected, _ := m.sessionList.SelectedItem().(item)
	switch key {
	case "q":
		return tea.Quit, true
	case "enter":
		if selected.key == "" {
			return nil, true
		}
		return selectSessionCmd(m.ctx, m.ctrl, selected.key), true
	case "b":
		if err := m.ctrl.Back(); err != nil {
			m.err = err
		}
		m.sync()
		return nil, true
	case "d":
		m.ctrl.DismissPanel(selected.key)
		return nil, true
	case "c":
		m.ctrl.ClearPanels()
		return nil, true
	case "e":
		return toggleStatsCmd(m.ctx, m.ctrl, selected.key), true
	case "o", "t", "+", "-":
		opts := m.ctrl.Options()
		switch key {
		case "o":
			opts.RemoveOutliers = !opts.RemoveOutliers
		case "t":
			opts.ShowTrend = !opts.ShowTrend
		case "+":
			opts.OutlierLevel++
		case "-":
			opts.OutlierLevel--
		}
		if err := m.ctrl.SetOptions(opts); err != nil {
			m.err = err
			return nil, true
		}
		m.err = nil
		if selected.key == "" {
			return nil, true
		}
		if _, ok := m.panels.Get(selected.key); !ok {
			return nil, true
		}
		return renderSessionCmd(m.ctx, m.ctrl, selected.key), true
	}
	return nil, false
}

// sync rebuilds the lists after the controller changed view or data
func (m *model) sync() {
	state := m.ctrl.State()
	changed := state.View != m.view
	m.view = state.View

	switch state.View {
	case controller.ViewInitial:
		if changed {
			m.pathInput.Focus()
		}

	case controller.ViewPressSelection:
		if !changed || state.Upload == nil {
			return
		}
		items := make([]list.Item, 0, len(state.Upload.Summary))
		for _, p := range state.Upload.Summary {
			items = append(items, item{
				title: fmt.Sprintf("%s SN %d", health.Emoji(health.Color(p.Color)), p.SN),
				desc: fmt.Sprintf("cycles %d · overall %s %.1f%% · scaling %s %.1f%% · gap %s %.1f%%",
					p.Cycles, p.OverallHealth, p.OverallHealthPercent,
					p.ScalingHealth, p.ScalingHealthPercent, p.GapHealth, p.GapHealthPercent),
				sn: p.SN,
			})
		}
		m.pressList.SetItems(items)
		m.pressList.Title = "Select a Press from " + state.Filename

	case controller.ViewMainApp:
		if state.PressData == nil {
			return
		}
		labels := m.ctrl.DropdownLabels()
		items := make([]list.Item, 0, len(labels))
		for i, st := range state.PressData.StartTimes {
			items = append(items, item{
				title: labels[i],
				desc:  fmt.Sprintf("%d rows", len(state.PressData.Sessions[st.ShortTime])),
				key:   st.ShortTime,
			})
		}
		m.sessionList.SetItems(items)
		m.sessionList.Title = fmt.Sprintf("SN %d · %s", state.PressData.SN, state.PressData.OverallHealth)
		for i, st := range state.PressData.StartTimes {
			if st.ShortTime == state.SelectedSessionKey {
				m.sessionList.Select(i)
				break
			}
		}
	}
}

// View renders exactly the controller's current view
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	state := m.ctrl.State()

	var body string
	switch m.view {
	case controller.ViewInitial:
		body = m.initialView()
	case controller.ViewPressSelection:
		body = lipgloss.NewStyle().Margin(1, 2).Render(m.pressList.View())
	case controller.ViewMainApp:
		body = m.mainView(state)
	default:
		body = "Unknown state"
	}

	var footer []string
	if m.isLoading {
		footer = append(footer, m.spinner.View()+" working...")
	}
	if state.Message != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(state.Message))
	} else if m.err != nil {
		footer = append(footer, lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("Error: "+m.err.Error()))
	}
	footer = append(footer, helpStyle.Render(m.help(state)))
	return body + "\n" + strings.Join(footer, "\n")
}

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m *model) initialView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Press Health"))
	b.WriteString("\n\nUpload a press export (.csv or .xlsx)\n\n")
	if state := m.ctrl.State(); state.Filename != "" && state.Upload != nil {
		b.WriteString(helpStyle.Render("Last upload: "+state.Filename) + "\n\n")
	}
	b.WriteString(m.pathInput.View())
	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func (m *model) mainView(state controller.AppState) string {
	opts := m.ctrl.Options()
	header := headerStyle.Render(fmt.Sprintf("%s · SN %d", state.Filename, state.SelectedSN))
	toggles := fmt.Sprintf("outliers: %v (level %d)  trend: %v", opts.RemoveOutliers, opts.OutlierLevel, opts.ShowTrend)

	var keys []string
	if state.PressData != nil {
		for _, st := range state.PressData.StartTimes {
			keys = append(keys, st.ShortTime)
		}
	}
	var rendered []string
	for _, p := range m.panels.Ordered(keys) {
		rendered = append(rendered, renderPanel(p, m.width-44, p.SessionKey == state.SelectedSessionKey))
	}
	if len(rendered) == 0 {
		rendered = append(rendered, helpStyle.Render("Select a session to plot it."))
	}

	left := m.sessionList.View()
	right := lipgloss.JoinVertical(lipgloss.Left, rendered...)
	return lipgloss.JoinVertical(lipgloss.Left,
		header+"  "+toggles,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right),
	)
}

func (m *model) help(state controller.AppState) string {
	switch m.view {
	case controller.ViewInitial:
		return "enter: upload · ctrl+c: quit"
	case controller.ViewPressSelection:
		return "enter: open press · esc: reset · q: quit"
	default:
		h := "enter: plot · d: dismiss · c: clear · e: error stats · o: outliers · +/-: level · t: trend · esc: reset · q: quit"
		if state.CanGoBack() {
			h = "b: back · " + h
		}
		return h
	}
}

// Run starts the terminal client and blocks until the user quits
func Run(ctx context.Context, ctrl *controller.Controller, panels *PanelStore) error {
	m := newModel(ctx, ctrl, panels)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	// Renderer calls arrive from command goroutines; never block them on the event loop.
	panels.SetNotify(func(msg tea.Msg) { go p.Send(msg) })
	_, err := p.Run()
	return err
}
