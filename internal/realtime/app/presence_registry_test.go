package app

import (
	"sync"
	"testing"

	"todo_realtime_service/internal/realtime/domain"

	"github.com/stretchr/testify/assert"
)

func TestPresenceRegistry_OnlineThenOffline(t *testing.T) {
	p := NewPresenceRegistry()

	p.SetOnline(1)
	assert.True(t, p.IsOnline(1))

	p.SetOffline(1)
	assert.False(t, p.IsOnline(1))
	assert.Empty(t, p.Snapshot())
}

func TestPresenceRegistry_OfflineUnknownIsNoop(t *testing.T) {
	p := NewPresenceRegistry()

	assert.NotPanics(t, func() { p.SetOffline(404) })
	assert.False(t, p.IsOnline(404))
}

func TestPresenceRegistry_SetOnlineIdempotent(t *testing.T) {
	p := NewPresenceRegistry()

	p.SetOnline(5)
	p.SetOnline(5)

	assert.Equal(t, []domain.PresenceEntry{{UserID: 5, Status: domain.PresenceOnline}}, p.Snapshot())
	assert.Equal(t, 1, p.Count())
}

func TestPresenceRegistry_SnapshotIsCopyOrderedByID(t *testing.T) {
	p := NewPresenceRegistry()
	p.SetOnline(9)
	p.SetOnline(5)

	snap := p.Snapshot()
	p.SetOffline(9)

	assert.Equal(t, []domain.PresenceEntry{
		{UserID: 5, Status: domain.PresenceOnline},
		{UserID: 9, Status: domain.PresenceOnline},
	}, snap)
	assert.Len(t, p.Snapshot(), 1)
}

func TestPresenceRegistry_Concurrent(t *testing.T) {
	p := NewPresenceRegistry()
	var wg sync.WaitGroup

	for i := int64(1); i <= 100; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			p.SetOnline(id)
		}(i)
		go func() {
			defer wg.Done()
			_ = p.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, p.Count())

	for i := int64(1); i <= 100; i += 2 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			p.SetOffline(id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, p.Count())
	assert.False(t, p.IsOnline(1))
	assert.True(t, p.IsOnline(2))
}
