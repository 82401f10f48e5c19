package ntfystub

import "time"

// Message is one publish received by the stub.
type Message struct {
	Topic      string    `json:"topic"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Priority   int       `json:"priority"`
	Tags       []string  `json:"tags,omitempty"`
	Auth       string    `json:"-"`
	ReceivedAt time.Time `json:"received_at"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}

// FailRequest makes the next Count publishes answer with Status.
type FailRequest struct {
	Count  int `json:"count"`
	Status int `json:"status"`
}
