package domain

// SessionState connection lifecycle
type SessionState int

const (
	// SessionConnecting transport handshake in progress
	SessionConnecting SessionState = iota
	// SessionConnected open, identity unknown
	SessionConnected
	// SessionAssociated identity bound by a join message
	SessionAssociated
	// SessionDisconnected closed
	SessionDisconnected
)

func (s SessionState) String() string {
	switch s {
	case SessionConnecting:
		return "CONNECTING"
	case SessionConnected:
		return "CONNECTED"
	case SessionAssociated:
		return "ASSOCIATED"
	default:
		return "DISCONNECTED"
	}
}

// Session per-connection attributes. Owned by the connection's read loop and
// never shared across connections, so it carries no lock.
type Session struct {
	ID        string
	State     SessionState
	UserID    *int64
	UserName  string
	ProjectID *int64
}

// NewSession a session in CONNECTING state
func NewSession(id string) *Session {
	return &Session{ID: id, State: SessionConnecting}
}

// Bind attach identity (and optionally a project) from a join message
func (s *Session) Bind(userID int64, userName string, projectID *int64) {
	s.UserID = &userID
	s.UserName = userName
	s.ProjectID = projectID
	s.State = SessionAssociated
}

// ClearProject drop the project attribute, identity stays
func (s *Session) ClearProject() {
	s.ProjectID = nil
}

// Identity the bound user, ok is false when no join happened or the name is missing
func (s *Session) Identity() (userID int64, userName string, ok bool) {
	if s.UserID == nil || s.UserName == "" {
		return 0, "", false
	}
	return *s.UserID, s.UserName, true
}
