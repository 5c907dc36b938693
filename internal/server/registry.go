package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/Frank-III/PixeLana-further/internal/game"
	"github.com/Frank-III/PixeLana-further/internal/roomid"
)

// ErrRoomNotFound is returned when a room code does not resolve.
var ErrRoomNotFound = errors.New("server: room not found")

// Room pairs a session with its own lock. Only one operation mutates a
// room's state at a time; operations on different rooms run in parallel.
type Room struct {
	ID string

	mu         sync.Mutex
	session    *game.Session
	lastActive time.Time
}

// Registry maps room codes to independently locked sessions. The table
// itself is behind a reader-writer lock: creation takes the writer
// side, lookups take the reader side, and no operation ever holds two
// room locks at once.
type Registry struct {
	logger  *log.Logger
	gameCfg game.Config
	gen     *roomid.Generator
	clock   quartz.Clock

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry(gameCfg game.Config, gen *roomid.Generator, clock quartz.Clock, logger *log.Logger) *Registry {
	return &Registry{
		logger:  logger.WithPrefix("registry"),
		gameCfg: gameCfg,
		gen:     gen,
		clock:   clock,
		rooms:   make(map[string]*Room),
	}
}

// CreateRoom generates a fresh unique room code, constructs a lobby
// session, joins the creating player and publishes the room, all under
// the table's write lock so concurrent creations can neither collide
// nor get lost.
func (r *Registry) CreateRoom(info game.PlayerInfo) (string, []*game.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id string
	for {
		id = r.gen.Generate()
		if _, taken := r.rooms[id]; !taken {
			break
		}
	}

	room := &Room{
		ID:         id,
		session:    game.NewSession(r.gameCfg),
		lastActive: r.clock.Now(),
	}
	roster, err := room.session.Join(info)
	if err != nil {
		// A fresh lobby cannot be full or started; defensive only.
		return "", nil, err
	}

	r.rooms[id] = room
	r.logger.Info("Room created", "room", id, "host", info.Name)
	return id, roster, nil
}

// WithRoom resolves a room under the table's read lock, then runs op
// while holding that room's lock only. Lookups for different rooms
// never serialise against each other.
func (r *Registry) WithRoom(id string, op func(*game.Session) error) error {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	room.lastActive = r.clock.Now()
	return op(room.session)
}

// RoomCount returns the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Sweep evicts rooms that have seen no activity for longer than
// maxIdle and returns how many were removed. Rooms for which inUse
// reports true are kept regardless of idle time; a nil inUse skips
// that check. Room locks are taken one at a time; the table's write
// lock is held only for the deletes.
func (r *Registry) Sweep(maxIdle time.Duration, inUse func(roomID string) bool) int {
	r.mu.RLock()
	snapshot := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		snapshot = append(snapshot, room)
	}
	r.mu.RUnlock()

	cutoff := r.clock.Now().Add(-maxIdle)
	var stale []string
	for _, room := range snapshot {
		if inUse != nil && inUse(room.ID) {
			continue
		}
		room.mu.Lock()
		if room.lastActive.Before(cutoff) {
			stale = append(stale, room.ID)
		}
		room.mu.Unlock()
	}
	if len(stale) == 0 {
		return 0
	}

	r.mu.Lock()
	removed := 0
	for _, id := range stale {
		room, ok := r.rooms[id]
		if !ok {
			continue
		}
		room.mu.Lock()
		if room.lastActive.Before(cutoff) {
			delete(r.rooms, id)
			removed++
		}
		room.mu.Unlock()
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("Swept idle rooms", "count", removed)
	}
	return removed
}
