package game

import (
	"sync"
	"time"

	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

// Registry is the only process-wide mutable state: it creates rooms on
// first join, looks them up for routing, and forgets them once their
// last participant leaves. Rooms remove themselves through the onEmpty
// callback after cancelling their timer and closing their actor, so a
// removed room can never be reached again.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg     Config
	tickers TickerFactory
	newDice func() Dice
}

func NewRegistry(cfg Config, tickers TickerFactory, newDice func() Dice) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		cfg:     cfg,
		tickers: tickers,
		newDice: newDice,
	}
}

// JoinRoom routes a join to the addressed room, creating it first if
// the identifier is unknown. The rare race against a room dying between
// lookup and delivery is retried on a fresh room.
func (g *Registry) JoinRoom(roomID, nickname string, asHost bool, sess Session) *Room {
	for {
		room := g.getOrCreate(roomID)
		if room.post(func() { room.handleJoin(nickname, asHost, sess) }) {
			return room
		}
	}
}

func (g *Registry) getOrCreate(roomID string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	if room, ok := g.rooms[roomID]; ok {
		return room
	}
	room := NewRoom(roomID, g.cfg, g.newDice(), g.tickers, g.remove)
	g.rooms[roomID] = room
	go room.Run()
	return room
}

func (g *Registry) Lookup(roomID string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[roomID]
	return room, ok
}

func (g *Registry) remove(roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, roomID)
	logger.Infof("room %s removed from registry", roomID)
}

func (g *Registry) RoomIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.rooms))
	for id := range g.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Stats aggregates rooms by lifecycle state from the mirrored atomics;
// no actor is disturbed.
func (g *Registry) Stats() RoomStats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := RoomStats{
		Total:     len(g.rooms),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, room := range g.rooms {
		switch room.State() {
		case StateWaiting:
			stats.Waiting++
		case StateRoleReveal, StatePlaying:
			stats.Playing++
		case StateGameOver:
			stats.GameOver++
		}
	}
	return stats
}

// FindAvailableRoom scans for a waiting room with a free seat and no
// nickname clash.
func (g *Registry) FindAvailableRoom(nickname string) (string, bool) {
	g.mu.RLock()
	candidates := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		if room.State() == StateWaiting {
			candidates = append(candidates, room)
		}
	}
	g.mu.RUnlock()

	for _, room := range candidates {
		snap, ok := room.Snapshot()
		if !ok || snap.State != StateWaiting || snap.PlayerCount >= g.cfg.MaxPlayers {
			continue
		}
		clash := false
		for _, name := range snap.Nicknames {
			if name == nickname {
				clash = true
				break
			}
		}
		if !clash {
			return snap.ID, true
		}
	}
	return "", false
}
