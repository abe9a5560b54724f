package app

import (
	"sort"
	"sync"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// PresenceRegistry 目前在線的使用者 (process 內, 不持久化)
//
// Safe for concurrent use. Each key is replaced or removed atomically.
type PresenceRegistry struct {
	online sync.Map // int64 -> struct{}
}

// NewPresenceRegistry create an empty registry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{}
}

// SetOnline mark userID online; repeated calls only log
func (p *PresenceRegistry) SetOnline(userID int64) {
	if _, loaded := p.online.LoadOrStore(userID, struct{}{}); loaded {
		logger.Log.Debug("user already online", zap.Int64("user_id", userID))
		return
	}
	logger.Log.Info("user online", zap.Int64("user_id", userID))
}

// SetOffline remove userID, absent ids are ignored
func (p *PresenceRegistry) SetOffline(userID int64) {
	if _, loaded := p.online.LoadAndDelete(userID); loaded {
		logger.Log.Info("user offline", zap.Int64("user_id", userID))
	}
}

// IsOnline report whether userID has an entry
func (p *PresenceRegistry) IsOnline(userID int64) bool {
	_, ok := p.online.Load(userID)
	return ok
}

// Snapshot point-in-time copy of all online users ordered by id
func (p *PresenceRegistry) Snapshot() []domain.PresenceEntry {
	entries := make([]domain.PresenceEntry, 0)
	p.online.Range(func(key, _ interface{}) bool {
		entries = append(entries, domain.PresenceEntry{
			UserID: key.(int64),
			Status: domain.PresenceOnline,
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].UserID < entries[j].UserID })
	return entries
}

// Count number of online users
func (p *PresenceRegistry) Count() int {
	n := 0
	p.online.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
