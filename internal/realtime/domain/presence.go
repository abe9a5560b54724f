package domain

// PresenceStatus 在線狀態
type PresenceStatus string

const (
	// PresenceOnline user connected
	PresenceOnline PresenceStatus = "online"
	// PresenceOffline user gone; never stored, absence of an entry means offline
	PresenceOffline PresenceStatus = "offline"
)

// PresenceEntry one row of a presence snapshot
type PresenceEntry struct {
	UserID int64          `json:"userId"`
	Status PresenceStatus `json:"status"`
}

// StatusRequestAll content.action asking for a presence replay
const StatusRequestAll = "request_all"
