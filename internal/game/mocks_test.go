package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// --- Session ---

// recorderSession captures every event delivered to one participant.
type recorderSession struct {
	mu     sync.Mutex
	events []Event
}

func (s *recorderSession) Send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recorderSession) Close(string) {}

func (s *recorderSession) named(name string) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := []Event{}
	for _, ev := range s.events {
		if ev.Name == name {
			matches = append(matches, ev)
		}
	}
	return matches
}

func (s *recorderSession) last(name string) (Event, bool) {
	matches := s.named(name)
	if len(matches) == 0 {
		return Event{}, false
	}
	return matches[len(matches)-1], true
}

func (s *recorderSession) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// --- Dice ---

// stubDice makes every random choice the first candidate and every
// chance gate pass: Perm is the identity, Intn and Float64 are zero.
type stubDice struct{}

func (stubDice) Perm(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func (stubDice) Intn(int) int { return 0 }

func (stubDice) Float64() float64 { return 0 }

// --- TickerFactory ---

// manualTickerFactory hands each countdown its own channel so tests
// decide when a second elapses.
type manualTickerFactory struct {
	mu    sync.Mutex
	ticks []chan time.Time
}

func (f *manualTickerFactory) Create(time.Duration) (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time)
	f.ticks = append(f.ticks, ch)
	return ch, func() {}
}

func (f *manualTickerFactory) tick() {
	f.mu.Lock()
	ch := f.ticks[len(f.ticks)-1]
	f.mu.Unlock()
	ch <- time.Now()
}

// --- helpers ---

func testConfig() Config {
	cfg := DefaultConfig()
	return cfg
}

func newTestRoom(cfg Config) *Room {
	return NewRoom("room1", cfg, stubDice{}, &manualTickerFactory{}, nil)
}

// mustJoin runs the join handler directly, the way the room actor
// would, and returns the participant with its recording session.
func mustJoin(t *testing.T, r *Room, nickname string, asHost bool) (*Participant, *recorderSession) {
	t.Helper()
	sess := &recorderSession{}
	r.handleJoin(nickname, asHost, sess)
	p := r.roster.Find(nickname)
	require.NotNil(t, p, "join of %s should have succeeded", nickname)
	return p, sess
}

// awaitOps executes n queued actor operations without running the
// actor loop, failing the test if one never arrives.
func awaitOps(t *testing.T, r *Room, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case op := <-r.ops:
			op()
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for room op %d", i)
		}
	}
}
