package repository

import (
	"context"
	"sync"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

const defaultSubscriberBuffer = 256

type localSubscriber struct {
	ch chan domain.RealtimeMessage
}

// LocalHub in-process transport: one buffered queue per subscriber of a
// destination. A subscriber whose queue is full misses the message.
type LocalHub struct {
	mu     sync.RWMutex
	subs   map[string]map[*localSubscriber]struct{}
	buffer int
}

// NewLocalHub create a LocalHub; buffer <= 0 uses the default queue size
func NewLocalHub(buffer int) *LocalHub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &LocalHub{
		subs:   make(map[string]map[*localSubscriber]struct{}),
		buffer: buffer,
	}
}

// Publish enqueue msg for every current subscriber of destination
func (h *LocalHub) Publish(_ context.Context, destination string, msg domain.RealtimeMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[destination] {
		select {
		case s.ch <- msg:
		default:
			logger.Log.Warn("subscriber queue full, message dropped",
				zap.String("destination", destination), zap.String("message_id", msg.MessageID))
		}
	}
	return nil
}

// Subscribe register handler until ctx is done
func (h *LocalHub) Subscribe(ctx context.Context, destination string, handler func(domain.RealtimeMessage)) error {
	s := &localSubscriber{ch: make(chan domain.RealtimeMessage, h.buffer)}

	h.mu.Lock()
	if h.subs[destination] == nil {
		h.subs[destination] = make(map[*localSubscriber]struct{})
	}
	h.subs[destination][s] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.unsubscribe(destination, s)
		for {
			select {
			case msg := <-s.ch:
				handler(msg)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Subscribers number of subscribers attached to destination
func (h *LocalHub) Subscribers(destination string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[destination])
}

func (h *LocalHub) unsubscribe(destination string, s *localSubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[destination], s)
	if len(h.subs[destination]) == 0 {
		delete(h.subs, destination)
	}
}
