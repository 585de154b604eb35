package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"presshealth/domain/chart"
	"presshealth/domain/core"
	"presshealth/domain/health"
	"presshealth/domain/press"
	"presshealth/internal"
	"presshealth/internal/analysis"
	"presshealth/ports"
)

// Options are the plot toggles sent with every session render
type Options struct {
	RemoveOutliers bool
	OutlierLevel   int
	ShowTrend      bool
	ShowErrorStats bool
}

// DefaultOptions plots raw data at the default outlier level
func DefaultOptions() Options {
	return Options{OutlierLevel: analysis.DefaultOutlierLevel}
}

// Validate checks the outlier level
func (o Options) Validate() error {
	return analysis.ValidateLevel(o.OutlierLevel)
}

// Option customizes a Controller
type Option func(*Controller)

// WithOptions sets the initial plot toggles
func WithOptions(o Options) Option {
	return func(c *Controller) { c.options = o }
}

// WithLogger sets the controller logger
func WithLogger(logger *internal.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// Controller drives AppState through the press service. The mutex is held
// only while a transition or panel update is applied, never across a call to
// the service.
type Controller struct {
	mu       sync.Mutex
	state    AppState
	panels   map[string]*chart.Panel
	options  Options
	service  ports.PressService
	renderer ports.PanelRenderer
	logger   *internal.Logger
}

// New creates a controller in the initial state
func New(service ports.PressService, renderer ports.PanelRenderer, opts ...Option) *Controller {
	c := &Controller{
		state:    InitialState(),
		panels:   make(map[string]*chart.Panel),
		options:  DefaultOptions(),
		service:  service,
		renderer: renderer,
		logger:   internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("Controller")
	return c
}

// State returns a snapshot of the current state
func (c *Controller) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies one action. Leaving a view drops every panel so the next
// view starts from freshly built charts.
func (c *Controller) Dispatch(a Action) AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatchLocked(a)
}

func (c *Controller) dispatchLocked(a Action) AppState {
	prev := c.state
	c.state = Reduce(prev, a)
	if c.state.View != prev.View || a.Kind == ActionReset {
		c.clearPanelsLocked()
	}
	c.logger.Debug("%s: %s -> %s", a.Kind, prev.View, c.state.View)
	return c.state
}

// Upload sends a file to the service and moves to PressSelection or MainApp.
// A single-press upload renders its first session right away.
func (c *Controller) Upload(ctx context.Context, filename string, file io.Reader) error {
	c.mu.Lock()
	if c.state.View != ViewInitial {
		c.mu.Unlock()
		return fmt.Errorf("%w: upload from %s", core.ErrWrongView, c.state.View)
	}
	c.dispatchLocked(UploadStarted(filename))
	c.mu.Unlock()

	result, err := c.service.Upload(ctx, filename, file)
	if err != nil {
		c.logger.Warn("upload %s failed: %v", filename, err)
		c.Dispatch(UploadFailed(err))
		return err
	}

	state := c.Dispatch(UploadSucceeded(result))
	if state.View == ViewMainApp && state.SelectedSessionKey != "" {
		return c.RenderSession(ctx, state.SelectedSessionKey)
	}
	return nil
}

// SelectPress loads one press of a multi-press upload. An SN that is not in
// the summary is ignored. On failure the controller returns to Initial.
func (c *Controller) SelectPress(ctx context.Context, sn int) error {
	c.mu.Lock()
	if c.state.View != ViewPressSelection {
		c.mu.Unlock()
		return fmt.Errorf("%w: select press from %s", core.ErrWrongView, c.state.View)
	}
	if !c.state.HasPress(sn) {
		c.mu.Unlock()
		return nil
	}
	state := c.dispatchLocked(PressChosen(sn))
	c.mu.Unlock()

	data, err := c.service.FetchPressData(ctx, state.Filename, sn)
	if err != nil {
		c.logger.Warn("press %d of %s failed to load: %v", sn, state.Filename, err)
		c.Dispatch(PressLoadFailed(err))
		return err
	}

	state = c.Dispatch(PressLoaded(data))
	if state.View == ViewMainApp && state.SelectedSessionKey != "" {
		return c.RenderSession(ctx, state.SelectedSessionKey)
	}
	return nil
}

// SelectSession makes key the selected session and renders its panel.
// Unknown keys are ignored.
func (c *Controller) SelectSession(ctx context.Context, key string) error {
	c.mu.Lock()
	if _, ok := c.state.SessionRows(key); !ok {
		c.mu.Unlock()
		return nil
	}
	c.dispatchLocked(SessionChosen(key))
	c.mu.Unlock()
	return c.RenderSession(ctx, key)
}

// RenderSession runs one panel's pipeline: health first, then the plot data
// fetch, then population. A newer render or a dismissal of the same session
// makes this one stale; stale results are dropped.
func (c *Controller) RenderSession(ctx context.Context, key string) error {
	c.mu.Lock()
	rows, ok := c.state.SessionRows(key)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	panel := &chart.Panel{
		ID:           core.NewPanelID(),
		SessionKey:   key,
		Health:       health.Evaluate(rows),
		Status:       chart.PanelPending,
		MaxBlanketID: maxBlanketID(rows),
	}
	c.panels[key] = panel
	opts := c.options
	c.renderer.RenderPanel(*panel)
	c.mu.Unlock()

	result, err := c.service.ProcessData(ctx, press.ProcessRequest{
		SessionData:    rows,
		RemoveOutliers: opts.RemoveOutliers,
		OutlierLevel:   opts.OutlierLevel,
		ShowTrend:      opts.ShowTrend,
	})
	if err != nil {
		c.logger.Warn("plot data for %s failed: %v", key, err)
		return c.ignoreStale(c.updatePanel(panel.ID, key, func(p *chart.Panel) {
			p.Status = chart.PanelFailed
			p.Err = err.Error()
		}), err)
	}

	var stats *press.ErrorStats
	if opts.ShowErrorStats {
		stats, err = c.service.ErrorStats(ctx, rows)
		if err != nil {
			c.logger.Warn("error stats for %s failed: %v", key, err)
		}
	}

	return c.ignoreStale(c.updatePanel(panel.ID, key, func(p *chart.Panel) {
		p.Scaling, p.Gap = buildSeries(result.PlotData)
		p.ScalingStdDev = result.ScalingStdDev
		p.GapStdDev = result.GapStdDev
		p.ScalingTrend = result.ScalingTrend
		if opts.ShowTrend {
			p.Trend = trendSeries(result.PlotData)
		}
		p.ErrorStats = stats
		p.Status = chart.PanelReady
		if err != nil {
			p.Err = err.Error()
		}
	}), nil)
}

// ToggleErrorStats shows or hides the status breakdown of a rendered panel
func (c *Controller) ToggleErrorStats(ctx context.Context, key string) error {
	c.mu.Lock()
	panel, ok := c.panels[key]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	id := panel.ID
	if panel.ErrorStats != nil {
		panel.ErrorStats = nil
		c.renderer.RenderPanel(*panel)
		c.mu.Unlock()
		return nil
	}
	rows, _ := c.state.SessionRows(key)
	c.mu.Unlock()

	stats, err := c.service.ErrorStats(ctx, rows)
	if err != nil {
		c.logger.Warn("error stats for %s failed: %v", key, err)
		return err
	}
	return c.ignoreStale(c.updatePanel(id, key, func(p *chart.Panel) {
		p.ErrorStats = stats
	}), nil)
}

// updatePanel applies fn to the panel of key if it is still generation id and
// re-renders it. Otherwise it reports ErrStalePanel and changes nothing.
func (c *Controller) updatePanel(id core.PanelID, key string, fn func(*chart.Panel)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[key]
	if !ok || p.ID != id {
		return fmt.Errorf("%w: %s", core.ErrStalePanel, key)
	}
	fn(p)
	c.renderer.RenderPanel(*p)
	return nil
}

func (c *Controller) ignoreStale(err, otherwise error) error {
	if errors.Is(err, core.ErrStalePanel) {
		c.logger.Debug("dropped result: %v", err)
		return nil
	}
	if err != nil {
		return err
	}
	return otherwise
}

// DismissPanel removes one panel; siblings are untouched
func (c *Controller) DismissPanel(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.panels[key]; !ok {
		return false
	}
	delete(c.panels, key)
	c.renderer.RemovePanel(key)
	return true
}

// ClearPanels removes every panel
func (c *Controller) ClearPanels() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearPanelsLocked()
}

func (c *Controller) clearPanelsLocked() {
	for key := range c.panels {
		delete(c.panels, key)
		c.renderer.RemovePanel(key)
	}
}

// Panels returns the rendered panels in session order
func (c *Controller) Panels() []chart.Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]chart.Panel, 0, len(c.panels))
	if c.state.PressData == nil {
		return out
	}
	for _, st := range c.state.PressData.StartTimes {
		if p, ok := c.panels[st.ShortTime]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// Back returns to press selection; only multi-press uploads have one
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.CanGoBack() {
		return core.ErrBackUnavailable
	}
	c.dispatchLocked(Back())
	return nil
}

// Reset wipes all state and returns to Initial
func (c *Controller) Reset() {
	c.Dispatch(Reset())
}

// Options returns the current plot toggles
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// SetOptions changes the plot toggles used by later renders
func (c *Controller) SetOptions(o Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = o
	return nil
}

// DropdownLabels lists the session entries of the loaded press
func (c *Controller) DropdownLabels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.PressData == nil {
		return nil
	}
	out := make([]string, 0, len(c.state.PressData.StartTimes))
	for _, st := range c.state.PressData.StartTimes {
		out = append(out, DropdownLabel(st))
	}
	return out
}
