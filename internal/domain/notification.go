package domain

type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityHigh    Priority = "high"
	PriorityUrgent  Priority = "urgent"
)

func (p Priority) String() string {
	return string(p)
}

// Level maps the priority onto the 1..5 scale used by the push endpoint.
func (p Priority) Level() int {
	switch p {
	case PriorityUrgent:
		return 5
	case PriorityHigh:
		return 4
	default:
		return 3
	}
}

type Notification struct {
	Bucket   Bucket
	Title    string
	Body     string
	Priority Priority
	Tags     []string
}
