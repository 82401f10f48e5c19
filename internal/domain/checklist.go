package domain

import "time"

// InspectionSectors is the sector vocabulary of the facility inspection form.
// Items may name other sectors; the list is offered for selection only.
var InspectionSectors = []string{
	"Recepção",
	"Raio-X",
	"UTI",
	"Expurgo",
	"Farmácia",
	"Cozinha",
	"Outro",
}

// ChecklistItem is one point of a facility inspection. Done means the point
// was found conforming; an item not yet done is a non-conformity.
type ChecklistItem struct {
	ID          string
	DocumentRef string
	Sector      string
	TaskText    string
	Done        bool
	Severity    RiskLevel
	Notes       string
	CreatedAt   time.Time
}
