package models

import (
	"encoding/json"
	"fmt"
)

// ScopeType selects which entity a chat room or message attaches to.
type ScopeType string

const (
	ScopeComplaint      ScopeType = "complaint"
	ScopeServiceRequest ScopeType = "service_request"
)

// RoomKey identifies the realtime room for one scope.
type RoomKey struct {
	Type ScopeType
	ID   uint
}

// String returns the canonical room name, e.g. "complaint:42" or "request:7".
func (k RoomKey) String() string {
	if k.Type == ScopeServiceRequest {
		return fmt.Sprintf("request:%d", k.ID)
	}
	return fmt.Sprintf("%s:%d", k.Type, k.ID)
}

// Outbound event names (server -> client).
const (
	EventNewMessage      = "new_message"
	EventStatusChange    = "status_change"
	EventNotification    = "notification"
	EventComplaintUpdate = "complaint_update"
)

// Inbound event names (client -> server). Sending messages is REST-only;
// the socket carries room membership changes.
const (
	ActionJoinComplaint  = "join_complaint"
	ActionLeaveComplaint = "leave_complaint"
	ActionJoinRequest    = "join_service_request"
	ActionLeaveRequest   = "leave_service_request"
)

// Event is one server->client frame as written to the websocket.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals data into an Event frame.
func NewEvent(name string, data any) (Event, error) {
	if data == nil {
		return Event{Name: name}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s event: %w", name, err)
	}
	return Event{Name: name, Data: raw}, nil
}

// Envelope wraps an Event with its routing target for the Redis event bus.
// Exactly one of Room, RecipientID or RecipientRole is set; the hub delivers
// the inner Event to room members, to one user's connections, or to every
// connection of a role.
type Envelope struct {
	Room          string `json:"room,omitempty"`
	RecipientID   uint   `json:"recipient_id,omitempty"`
	RecipientRole string `json:"recipient_role,omitempty"`
	Event         Event  `json:"payload"`
}

// StatusChangePayload is the data of a status_change event.
type StatusChangePayload struct {
	ComplaintID *uint  `json:"complaint_id,omitempty"`
	RequestID   *uint  `json:"request_id,omitempty"`
	Status      string `json:"status"`
}

// ClientFrame is one client->server frame read off the websocket.
type ClientFrame struct {
	Event       string `json:"event"`
	ComplaintID uint   `json:"complaint_id,omitempty"`
	RequestID   uint   `json:"request_id,omitempty"`
}

// RoomKeyFor maps an inbound frame to the room it addresses. ok is false for
// unknown events or missing ids.
func (f ClientFrame) RoomKeyFor() (key RoomKey, join bool, ok bool) {
	switch f.Event {
	case ActionJoinComplaint:
		return RoomKey{ScopeComplaint, f.ComplaintID}, true, f.ComplaintID != 0
	case ActionLeaveComplaint:
		return RoomKey{ScopeComplaint, f.ComplaintID}, false, f.ComplaintID != 0
	case ActionJoinRequest:
		return RoomKey{ScopeServiceRequest, f.RequestID}, true, f.RequestID != 0
	case ActionLeaveRequest:
		return RoomKey{ScopeServiceRequest, f.RequestID}, false, f.RequestID != 0
	}
	return RoomKey{}, false, false
}
