package notifier

import (
	"context"

	"github.com/KasumiMercury/compliance-watch/internal/domain"
)

//go:generate mockgen -source=notifier.go -destination=mock.go -package=notifier

// Notifier hands one consolidated notification to the push endpoint.
// Endpoint failures are returned wrapped in domain.ErrNotificationSend.
type Notifier interface {
	Send(ctx context.Context, notification domain.Notification) error
}
