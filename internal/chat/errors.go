package chat

import "errors"

// Error taxonomy for message handling. All checks run before anything is
// persisted, so a failed send leaves no partial state.
var (
	// ErrEmptyMessage rejects empty or whitespace-only bodies (validation).
	ErrEmptyMessage = errors.New("message body is empty")
	// ErrChatClosed rejects sends while the scope's status forbids chat
	// (policy): complaint "reviewed", or service request not "accepted".
	ErrChatClosed = errors.New("chat is closed for this scope")
	// ErrScopeNotFound rejects operations on a missing complaint or request.
	ErrScopeNotFound = errors.New("scope not found")
	// ErrNotParticipant rejects access by users who are neither a scope
	// participant nor an admin.
	ErrNotParticipant = errors.New("not a participant of this scope")
)
