package chathub

import "sync"

// RoomRegistry is the in-memory bidirectional mapping between connections and
// rooms. Membership is ephemeral: nothing is persisted, and clients re-join
// their rooms on every (re)connect.
//
// The hub dispatcher owns all mutations, but broadcasts read membership from
// other goroutines, so the maps are mutex-guarded.
type RoomRegistry struct {
	mu sync.RWMutex
	// rooms maps room name -> session id -> client.
	rooms map[string]map[string]Client
	// sessions maps session id -> set of joined room names.
	sessions map[string]map[string]struct{}
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:    make(map[string]map[string]Client),
		sessions: make(map[string]map[string]struct{}),
	}
}

// Join adds the client to a room. Joining a room twice is a no-op.
func (r *RoomRegistry) Join(c Client, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sid := c.GetSessionID()
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]Client)
	}
	r.rooms[room][sid] = c

	if r.sessions[sid] == nil {
		r.sessions[sid] = make(map[string]struct{})
	}
	r.sessions[sid][room] = struct{}{}
}

// Leave removes the client from a room. Leaving a room the client never
// joined is a no-op.
func (r *RoomRegistry) Leave(c Client, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(c.GetSessionID(), room)
}

// RemoveAll removes the client from every room it joined. Called on
// disconnect; cleanup is unconditional so a reconnect under a fresh session
// id can never observe stale membership.
func (r *RoomRegistry) RemoveAll(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sid := c.GetSessionID()
	for room := range r.sessions[sid] {
		r.leaveLocked(sid, room)
	}
	delete(r.sessions, sid)
}

func (r *RoomRegistry) leaveLocked(sid, room string) {
	if members, ok := r.rooms[room]; ok {
		delete(members, sid)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	if rooms, ok := r.sessions[sid]; ok {
		delete(rooms, room)
	}
}

// Members returns a snapshot of the clients currently in a room. Delivery to
// the snapshot is best-effort: a member that disconnects between snapshot and
// write simply misses the event.
func (r *RoomRegistry) Members(room string) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Client, 0, len(r.rooms[room]))
	for _, c := range r.rooms[room] {
		members = append(members, c)
	}
	return members
}

// HasUser reports whether any of the user's sessions is currently a member
// of the room. Used to skip notifications for participants who are watching
// the chat live.
func (r *RoomRegistry) HasUser(room string, userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.rooms[room] {
		if c.GetUserID() == userID {
			return true
		}
	}
	return false
}

// Rooms returns a snapshot of the room names the client has joined.
func (r *RoomRegistry) Rooms(c Client) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]string, 0, len(r.sessions[c.GetSessionID()]))
	for room := range r.sessions[c.GetSessionID()] {
		rooms = append(rooms, room)
	}
	return rooms
}
