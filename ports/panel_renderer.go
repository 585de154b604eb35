package ports

import "presshealth/domain/chart"

// PanelRenderer is the presentation boundary. It receives a fully populated
// panel (or a pending/failed one) and draws it; it never calls back into the controller.
type PanelRenderer interface {
	RenderPanel(p chart.Panel)
	RemovePanel(sessionKey string)
}
