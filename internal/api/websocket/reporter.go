package websocket

import (
	"encoding/json"

	"github.com/fortuna/farmcheck/internal/eligibility"
)

// progressEvent is the wire form of one analysis progress update.
type progressEvent struct {
	Type        string `json:"type"`
	League      string `json:"league,omitempty"`
	Group       string `json:"group,omitempty"`
	Page        int    `json:"page,omitempty"`
	Records     int    `json:"records,omitempty"`
	Phase       string `json:"phase,omitempty"`
	Message     string `json:"message,omitempty"`
	Violations  int    `json:"violations,omitempty"`
	Diagnostics int    `json:"diagnostics,omitempty"`
}

// ProgressReporter implements service.Reporter over the hub so connected
// clients can watch a run advance page by page.
type ProgressReporter struct {
	hub *Hub
}

// NewProgressReporter attaches a reporter to a hub.
func NewProgressReporter(hub *Hub) *ProgressReporter {
	return &ProgressReporter{hub: hub}
}

func (p *ProgressReporter) OnRunStart(leagueID string) {
	p.emit(progressEvent{Type: "run_start", League: leagueID})
}

func (p *ProgressReporter) OnStatsPage(group string, page, records int) {
	p.emit(progressEvent{Type: "stats_page", Group: group, Page: page, Records: records})
}

func (p *ProgressReporter) OnPhase(phase string) {
	p.emit(progressEvent{Type: "phase", Phase: phase})
}

func (p *ProgressReporter) OnWarning(message string) {
	p.emit(progressEvent{Type: "warning", Message: message})
}

func (p *ProgressReporter) OnRunComplete(report *eligibility.Report) {
	p.emit(progressEvent{
		Type:        "run_complete",
		League:      report.LeagueID,
		Violations:  len(report.Violations),
		Diagnostics: len(report.Diagnostics),
	})
}

func (p *ProgressReporter) OnRunError(err error) {
	p.emit(progressEvent{Type: "run_error", Message: err.Error()})
}

func (p *ProgressReporter) emit(event progressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	p.hub.Broadcast(data)
}
