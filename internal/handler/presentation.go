package handler

import (
	"github.com/KasumiMercury/compliance-watch/internal/domain"
	"github.com/KasumiMercury/compliance-watch/internal/service/status"
)

// Display attributes shown next to a document. They never feed alerting.
type statusDisplay struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

const (
	colorRed    = "#ff4d4d"
	colorOrange = "#ffa500"
	colorGreen  = "#28a745"
	colorGrey   = "#808080"
)

var statusDisplays = map[domain.UrgencyState]statusDisplay{
	domain.StateOverdue:     {Label: "🔴 Overdue", Color: colorRed},
	domain.StateDueToday:    {Label: "🔴 Due today", Color: colorRed},
	domain.StateCritical:    {Label: "🔴 Full priority", Color: colorRed},
	domain.StateElevated:    {Label: "🟠 Attention (high)", Color: colorOrange},
	domain.StateNormal:      {Label: "🟢 On schedule", Color: colorGreen},
	domain.StateResolved:    {Label: "✅ Resolved", Color: colorGreen},
	domain.StateInvalidDate: {Label: "⚪ Date error", Color: colorGrey},
}

func displayFor(state domain.UrgencyState) statusDisplay {
	if d, ok := statusDisplays[state]; ok {
		return d
	}
	return statusDisplay{Label: string(state), Color: colorGrey}
}

type statusResponse struct {
	State         domain.UrgencyState `json:"state"`
	DaysRemaining *int                `json:"days_remaining"`
	statusDisplay
}

func newStatusResponse(result status.Result) statusResponse {
	resp := statusResponse{
		State:         result.State,
		statusDisplay: displayFor(result.State),
	}
	if !result.State.IsInert() {
		days := result.DaysRemaining
		resp.DaysRemaining = &days
	}
	return resp
}
