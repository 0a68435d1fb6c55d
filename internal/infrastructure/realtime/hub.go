package realtime

import (
	"sync"
)

// Session is the hub's view of one realtime connection. *Conn implements it;
// tests may substitute fakes.
type Session interface {
	ID() string
	UserID() string
	Send(payload []byte) error
}

// Hub tracks which live sessions belong to which thread's broadcast room and
// fans messages out to the correct subset. All state is scoped to the process
// lifetime; there is no cross-node fan-out.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[string]Session             // sessionID -> session
	userSessions map[string]map[string]struct{} // userID -> set of sessionIDs
	rooms        map[string]map[string]Session  // threadID -> sessionID -> session
	sessionRooms map[string]map[string]struct{} // sessionID -> set of threadIDs
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:     make(map[string]Session),
		userSessions: make(map[string]map[string]struct{}),
		rooms:        make(map[string]map[string]Session),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a session. A user may hold several sessions at once
// (multiple tabs); each fans out independently.
func (h *Hub) Attach(s Session) {
	h.mu.Lock()
	h.sessions[s.ID()] = s
	owned := h.userSessions[s.UserID()]
	if owned == nil {
		owned = make(map[string]struct{})
		h.userSessions[s.UserID()] = owned
	}
	owned[s.ID()] = struct{}{}
	h.sessionRooms[s.ID()] = make(map[string]struct{})
	h.mu.Unlock()
}

// Detach removes a session and releases all of its room memberships.
func (h *Hub) Detach(s Session) {
	h.mu.Lock()
	h.detachLocked(s.ID())
	h.mu.Unlock()
}

// Join adds the session to the thread's room. Idempotent; a no-op for
// sessions that were never attached or already detached.
func (h *Hub) Join(threadID string, s Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s.ID()]; !ok {
		h.mu.Unlock()
		return
	}

	room := h.rooms[threadID]
	if room == nil {
		room = make(map[string]Session)
		h.rooms[threadID] = room
	}
	room[s.ID()] = s

	memberships := h.sessionRooms[s.ID()]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.sessionRooms[s.ID()] = memberships
	}
	memberships[threadID] = struct{}{}
	h.mu.Unlock()
}

// Leave removes the session from the thread's room.
func (h *Hub) Leave(threadID string, s Session) {
	h.mu.Lock()
	h.leaveLocked(threadID, s.ID())
	h.mu.Unlock()
}

// Broadcast writes payload to all members of the thread's room except the
// session identified by excludeSessionID (the sender's own connection, which
// updates its view optimistically). Delivery is best-effort; it returns the
// number of sessions the payload was handed to.
func (h *Hub) Broadcast(threadID string, payload []byte, excludeSessionID string) int {
	h.mu.RLock()
	room := h.rooms[threadID]
	if len(room) == 0 {
		h.mu.RUnlock()
		return 0
	}

	delivered := 0
	for id, s := range room {
		if id == excludeSessionID {
			continue
		}
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	h.mu.RUnlock()
	return delivered
}

// IsUserOnline reports whether the user currently holds a session in the
// thread's room. Used to decide whether a send needs an offline notification.
func (h *Hub) IsUserOnline(threadID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.rooms[threadID] {
		if s.UserID() == userID {
			return true
		}
	}
	return false
}

// Close detaches all sessions and clears hub state. Conn sessions are closed
// by their owning handlers; the hub only forgets them.
func (h *Hub) Close() {
	h.mu.Lock()
	h.sessions = make(map[string]Session)
	h.userSessions = make(map[string]map[string]struct{})
	h.rooms = make(map[string]map[string]Session)
	h.sessionRooms = make(map[string]map[string]struct{})
	h.mu.Unlock()
}

func (h *Hub) detachLocked(sessionID string) {
	s, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(h.sessions, sessionID)

	if owned, ok := h.userSessions[s.UserID()]; ok {
		delete(owned, sessionID)
		if len(owned) == 0 {
			delete(h.userSessions, s.UserID())
		}
	}

	for threadID := range h.sessionRooms[sessionID] {
		h.leaveLocked(threadID, sessionID)
	}
	delete(h.sessionRooms, sessionID)
}

func (h *Hub) leaveLocked(threadID string, sessionID string) {
	room := h.rooms[threadID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(h.rooms, threadID)
	}
	if memberships, ok := h.sessionRooms[sessionID]; ok {
		delete(memberships, threadID)
		if len(memberships) == 0 {
			delete(h.sessionRooms, sessionID)
		}
	}
}
