package chathub

import "servigo/backend/internal/models"

// Client is the interface for one realtime connection. It abstracts the
// underlying transport so the hub can manage websocket connections (and test
// doubles) uniformly.
type Client interface {
	// GetSessionID returns the connection's unique session id. A user with
	// several open tabs has several sessions.
	GetSessionID() string
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() uint
	// GetRole returns the user's role (user, provider, admin).
	GetRole() string

	// GetSendChannel returns the channel the hub writes outbound events to.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's send channel and its write pump.
	Close()
}
