package notifier

import (
	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

// publishMessage is the JSON publish body accepted by ntfy compatible servers.
type publishMessage struct {
	Topic    string   `json:"topic"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority int      `json:"priority"`
	Tags     []string `json:"tags,omitempty"`
}

func newPublishMessage(topic string, n domain.Notification) publishMessage {
	return publishMessage{
		Topic:    topic,
		Title:    n.Title,
		Message:  n.Body,
		Priority: n.Priority.Level(),
		Tags:     n.Tags,
	}
}
