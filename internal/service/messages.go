package service

import (
	"github.com/mmynk/eventbook/internal/calculator"
	"github.com/mmynk/eventbook/internal/composition"
	"github.com/mmynk/eventbook/internal/models"
	"github.com/mmynk/eventbook/internal/ordering"
)

type SaveRequest struct {
	Event    models.Event         `json:"event"`
	Lines    []models.ServiceLine `json:"lines"`
	Payments []models.Payment     `json:"payments"`
}

type SaveResponse struct {
	Result SaveResult `json:"result"`
}

type GetEventRequest struct {
	EventID string `json:"event_id"`
}

type GetEventResponse struct {
	Details EventDetails `json:"details"`
}

type SummaryRequest struct {
	EventID string `json:"event_id"`
}

type SummaryResponse struct {
	Summary calculator.Summary        `json:"summary"`
	Display calculator.DisplaySummary `json:"display"`
}

// ComposeRequest groups Lines when given, otherwise the stored lines of EventID.
type ComposeRequest struct {
	EventID string               `json:"event_id"`
	Lines   []models.ServiceLine `json:"lines,omitempty"`
}

type ComposeResponse struct {
	Composition composition.Composition `json:"composition"`
}

type AllocateRequest struct {
	Destination []models.ServiceLine `json:"destination"`
	Position    int                  `json:"position"`
}

type AllocateResponse struct {
	OrderIndex float64 `json:"order_index"`
}

type MoveRequest struct {
	Lines       []models.ServiceLine `json:"lines"`
	LineID      models.LineID        `json:"line_id"`
	Destination ordering.Destination `json:"destination"`
	Position    int                  `json:"position"`
}

type MoveResponse struct {
	Lines []models.ServiceLine `json:"lines"`
}
