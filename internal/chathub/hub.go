package chathub

import (
	"encoding/json"
	"log"

	"servigo/backend/internal/models"
	"servigo/backend/internal/storage"
)

// Action is one inbound room command from a connected client.
type Action struct {
	Client Client
	Frame  models.ClientFrame
}

// Hub is the realtime gateway dispatcher. A single goroutine (Run) serializes
// register/unregister and room commands, so actions from one connection are
// processed to completion before the next, while connections interleave
// freely. Outbound events arrive as routed envelopes on the Redis event bus
// and are fanned out to local room members.
type Hub struct {
	Registry *RoomRegistry
	Clients  map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	ActionCh     chan Action

	Storage storage.Storage

	envelopeCh chan models.Envelope
	quit       chan struct{}
}

func NewHub(s storage.Storage) *Hub {
	return &Hub{
		Registry:     NewRoomRegistry(),
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		ActionCh:     make(chan Action, 64),
		Storage:      s,
		envelopeCh:   make(chan models.Envelope, 64),
		quit:         make(chan struct{}),
	}
}

// Run is the hub's main loop. It starts the Redis subscriber and dispatches
// until Stop is called.
func (h *Hub) Run() {
	go h.listenEvents()

	for {
		select {
		case client := <-h.RegisterCh:
			h.Clients[client.GetSessionID()] = client
			log.Printf("Client connected: user %d (session %s)", client.GetUserID(), client.GetSessionID())

		case client := <-h.UnregisterCh:
			h.removeClient(client)

		case action := <-h.ActionCh:
			h.handleAction(action)

		case env := <-h.envelopeCh:
			h.deliver(env)

		case <-h.quit:
			return
		}
	}
}

// Stop terminates the dispatcher loop.
func (h *Hub) Stop() {
	close(h.quit)
}

// Dispatch hands a routed envelope to the dispatcher. The Redis subscriber
// feeds the same path, so locally produced and bus-received events share one
// delivery route.
func (h *Hub) Dispatch(env models.Envelope) {
	h.envelopeCh <- env
}

// listenEvents pipes the Redis event bus into the dispatcher.
func (h *Hub) listenEvents() {
	pubsub := h.Storage.SubscribeEvents()
	if pubsub == nil {
		return
	}
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var env models.Envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("Error unmarshalling bus event: %v", err)
			continue
		}
		select {
		case h.envelopeCh <- env:
		case <-h.quit:
			return
		}
	}
}

func (h *Hub) removeClient(client Client) {
	sid := client.GetSessionID()
	if _, ok := h.Clients[sid]; !ok {
		return
	}
	h.Registry.RemoveAll(client)
	delete(h.Clients, sid)
	client.Close()
	log.Printf("Client disconnected: user %d (session %s)", client.GetUserID(), sid)
}

func (h *Hub) handleAction(action Action) {
	key, join, ok := action.Frame.RoomKeyFor()
	if !ok {
		log.Printf("Ignoring unknown frame %q from user %d", action.Frame.Event, action.Client.GetUserID())
		return
	}

	if !join {
		h.Registry.Leave(action.Client, key.String())
		return
	}

	if !h.canJoin(action.Client, key) {
		log.Printf("Rejected join of %s by user %d: not a participant", key, action.Client.GetUserID())
		return
	}
	h.Registry.Join(action.Client, key.String())
}

// canJoin enforces room authorization: admins may join any room, everyone
// else must be the scope's user or its assigned provider.
func (h *Hub) canJoin(client Client, key models.RoomKey) bool {
	if client.GetRole() == models.RoleAdmin {
		return true
	}

	userID := client.GetUserID()
	switch key.Type {
	case models.ScopeComplaint:
		complaint, err := h.Storage.GetComplaintByID(key.ID)
		if err != nil {
			return false
		}
		return complaint.UserID == userID ||
			(complaint.ProviderID != nil && *complaint.ProviderID == userID)
	case models.ScopeServiceRequest:
		request, err := h.Storage.GetServiceRequestByID(key.ID)
		if err != nil {
			return false
		}
		return request.UserID == userID ||
			(request.ProviderID != nil && *request.ProviderID == userID)
	}
	return false
}

// deliver routes one envelope to its targets: a room's members, one user's
// connections, or every connection of a role.
func (h *Hub) deliver(env models.Envelope) {
	switch {
	case env.Room != "":
		for _, client := range h.Registry.Members(env.Room) {
			h.trySend(client, env.Event)
		}
	case env.RecipientID != 0:
		for _, client := range h.Clients {
			if client.GetUserID() == env.RecipientID {
				h.trySend(client, env.Event)
			}
		}
	case env.RecipientRole != "":
		for _, client := range h.Clients {
			if client.GetRole() == env.RecipientRole {
				h.trySend(client, env.Event)
			}
		}
	}
}

// trySend is a non-blocking write to the client's buffer. A full buffer drops
// the event for that client; delivery is best-effort and the store remains
// the source of truth.
func (h *Hub) trySend(client Client, event models.Event) {
	select {
	case client.GetSendChannel() <- event:
	default:
		log.Printf("Dropping %s event for slow client (user %d, session %s)",
			event.Name, client.GetUserID(), client.GetSessionID())
	}
}
