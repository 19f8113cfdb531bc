package api

// Logging field keys and header names shared across servers.
const (
	Username        = "username"
	SessionId       = "sid"
	PlayerId        = "pid"
	RequestId       = "rid"
	RequestIdHeader = "X-Request-ID"
)

// User is one credential row: the username/salt/hash triple from which a
// successful login can be derived. Created on signup, never updated.
type User struct {
	ID       int64
	Username string
	Salt     []byte
	PwHash   []byte
}

// Identity is the minimal authenticated-principal projection embedded in
// session records. It must never carry salt or hash material.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Session pairs a session id with the identity it authenticates. The session
// id, not the credential, is the bearer of authenticated state across
// requests.
type Session struct {
	SessID   string   `json:"sid"`
	Identity Identity `json:"identity"`
}

// Player is one roster entry.
type Player struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Age            int    `json:"age"`
	PlaysAbroad    bool   `json:"plays_abroad"`
	Club           string `json:"club,omitempty"`
	IsCaptain      bool   `json:"is_captain"`
	JerseyNumber   int    `json:"jersey_number"`
	PositionOfPlay int    `json:"position_of_play"`
}
