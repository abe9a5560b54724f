package repository

import (
	"context"

	"todo_realtime_service/internal/realtime/domain"
)

// Transport 即時訊息的傳輸層.
//
// Delivery is best-effort: Publish never waits for subscribers and publishing to a
// destination with nobody attached is not an error. Messages published
// sequentially by one caller to one destination reach each subscriber in order.
type Transport interface {
	Publish(ctx context.Context, destination string, msg domain.RealtimeMessage) error
	// Subscribe attach handler to destination until ctx is cancelled.
	// The subscription is active when Subscribe returns.
	Subscribe(ctx context.Context, destination string, handler func(domain.RealtimeMessage)) error
}
