package domain

import "strings"

// RiskLevel is the operator-assigned severity of a document. It is an axis
// independent of UrgencyState.
type RiskLevel string

const (
	RiskNormal   RiskLevel = "NORMAL"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

func (r RiskLevel) String() string {
	return string(r)
}

func (r RiskLevel) IsValid() bool {
	return r == RiskNormal || r == RiskHigh || r == RiskCritical
}

// ParseRiskLevel accepts the English enum names and the labels used by the
// facility spreadsheets. Empty input yields RiskNormal.
func ParseRiskLevel(raw string) (RiskLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "NORMAL", "BAIXA", "BAIXO", "MÉDIA", "MEDIA", "LOW", "MEDIUM":
		return RiskNormal, true
	case "HIGH", "ALTA", "ALTO":
		return RiskHigh, true
	case "CRITICAL", "CRÍTICA", "CRITICA", "CRÍTICO", "CRITICO":
		return RiskCritical, true
	default:
		return RiskNormal, false
	}
}
