package domain

// UrgencyState is the date-derived classification of a document deadline.
// It is computed on every read and never persisted as authoritative state.
type UrgencyState string

const (
	StateResolved    UrgencyState = "RESOLVED"
	StateInvalidDate UrgencyState = "INVALID_DATE"
	StateOverdue     UrgencyState = "OVERDUE"
	StateDueToday    UrgencyState = "DUE_TODAY"
	StateCritical    UrgencyState = "CRITICAL"
	StateElevated    UrgencyState = "ELEVATED"
	StateNormal      UrgencyState = "NORMAL"
)

// ResolvedDaysSentinel is reported as days remaining for resolved records so
// they sort after every real deadline. It must not be fed into threshold logic.
const ResolvedDaysSentinel = 999

func (s UrgencyState) String() string {
	return string(s)
}

// Severity orders date-driven states from most to least urgent.
// Resolved and invalid-date records are inert and share the lowest value.
func (s UrgencyState) Severity() int {
	switch s {
	case StateOverdue:
		return 5
	case StateDueToday:
		return 4
	case StateCritical:
		return 3
	case StateElevated:
		return 2
	case StateNormal:
		return 1
	default:
		return 0
	}
}

// IsInert reports whether the state can never take part in alerting.
func (s UrgencyState) IsInert() bool {
	return s == StateResolved || s == StateInvalidDate
}

func (s UrgencyState) IsValid() bool {
	switch s {
	case StateResolved, StateInvalidDate, StateOverdue, StateDueToday,
		StateCritical, StateElevated, StateNormal:
		return true
	}
	return false
}

// AllUrgencyStates lists every state in descending severity, inert states last.
func AllUrgencyStates() []UrgencyState {
	return []UrgencyState{
		StateOverdue,
		StateDueToday,
		StateCritical,
		StateElevated,
		StateNormal,
		StateResolved,
		StateInvalidDate,
	}
}
