package domain

// ConnectionStore persists the durable connection record. Load returns
// (nil, nil) when nothing usable is stored; corrupt or partial data is
// reported as absent rather than as an error.
type ConnectionStore interface {
	Load() (*Connection, error)

	Save(conn *Connection) error

	Clear() error
}

// SessionStore holds the session-scoped authorization state. Only one
// session is active at a time; Begin replaces whatever came before it.
type SessionStore interface {
	Begin(state string)

	State() string

	SetInstallationID(id string)

	InstallationID() string

	Clear()
}
