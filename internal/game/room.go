package game

import (
	"sync/atomic"

	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

type LifecycleState int32

const (
	StateWaiting LifecycleState = iota
	StateRoleReveal
	StatePlaying
	StateGameOver
)

func (s LifecycleState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRoleReveal:
		return "roleReveal"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "gameOver"
	}
	return "unknown"
}

type Phase string

const (
	PhaseDay   Phase = "day"
	PhaseNight Phase = "night"
)

type SubPhase string

const (
	SubPhaseNone       SubPhase = ""
	SubPhaseDiscussion SubPhase = "discussion"
	SubPhaseNomination SubPhase = "nomination"
	SubPhaseDefense    SubPhase = "defense"
	SubPhaseExecution  SubPhase = "execution"
	SubPhaseResult     SubPhase = "result"
)

// Dice is the randomness the room consumes: the role shuffle and every
// AI decision. *math/rand.Rand satisfies it.
type Dice interface {
	Perm(n int) []int
	Intn(n int) int
	Float64() float64
}

// Durations are the phase lengths in seconds.
type Durations struct {
	RoleReveal         int
	Discussion         int
	Nomination         int
	NominationAnnounce int
	Defense            int
	Execution          int
	Result             int
	Night              int
	NightResult        int
}

func DefaultDurations() Durations {
	return Durations{
		RoleReveal:         5,
		Discussion:         120,
		Nomination:         20,
		NominationAnnounce: 4,
		Defense:            15,
		Execution:          12,
		Result:             10,
		Night:              30,
		NightResult:        5,
	}
}

type Config struct {
	MinPlayers int
	MaxPlayers int
	Durations  Durations
}

func DefaultConfig() Config {
	return Config{MinPlayers: 2, MaxPlayers: 9, Durations: DefaultDurations()}
}

// Room is one game session. Every mutation runs on the room's actor
// goroutine: exported methods post closures onto ops and the phase
// timer delivers its ticks the same way, so handlers never race.
type Room struct {
	id     string
	cfg    Config
	roster *Roster

	state       LifecycleState
	stateMirror atomic.Int32 // lifecycle state for lock-free stats reads
	day         int
	phase       Phase
	subPhase    SubPhase
	timeLeft    int

	nominated     string
	mafiaTarget   string
	lastExecution *ExecutionOutcome

	dice    Dice
	tickers TickerFactory
	timer   *countdown
	bots    botBrain

	ops     chan func()
	done    chan struct{}
	onEmpty func(roomID string)
}

func NewRoom(id string, cfg Config, dice Dice, tickers TickerFactory, onEmpty func(string)) *Room {
	r := &Room{
		id:      id,
		cfg:     cfg,
		roster:  &Roster{},
		state:   StateWaiting,
		day:     1,
		phase:   PhaseDay,
		dice:    dice,
		tickers: tickers,
		ops:     make(chan func(), 256),
		done:    make(chan struct{}),
		onEmpty: onEmpty,
	}
	r.bots = botBrain{room: r}
	logger.Infof("[Room %s] created", id)
	return r
}

func (r *Room) ID() string {
	return r.id
}

// State reads the mirrored lifecycle state; safe from any goroutine.
func (r *Room) State() LifecycleState {
	return LifecycleState(r.stateMirror.Load())
}

func (r *Room) setState(s LifecycleState) {
	r.state = s
	r.stateMirror.Store(int32(s))
}

// Run drains the command inbox until the room is destroyed.
func (r *Room) Run() {
	for {
		select {
		case <-r.done:
			return
		case op := <-r.ops:
			op()
		}
	}
}

// post hands an operation to the actor. It reports false once the room
// has been destroyed, guaranteeing no callback touches a removed room.
func (r *Room) post(op func()) bool {
	select {
	case <-r.done:
		return false
	default:
	}
	select {
	case <-r.done:
		return false
	case r.ops <- op:
		return true
	}
}

// destroy runs on the actor when the last participant leaves: the timer
// dies first so no expiry can fire into a deleted room.
func (r *Room) destroy() {
	r.cancelPhaseTimer()
	close(r.done)
	logger.Infof("[Room %s] destroyed", r.id)
	if r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

// RoomSnapshot is a consistent read of the fields the registry needs.
type RoomSnapshot struct {
	ID          string
	State       LifecycleState
	PlayerCount int
	Nicknames   []string
}

// Snapshot queries the actor synchronously. The second return is false
// when the room died before answering.
func (r *Room) Snapshot() (RoomSnapshot, bool) {
	reply := make(chan RoomSnapshot, 1)
	if !r.post(func() {
		reply <- RoomSnapshot{
			ID:          r.id,
			State:       r.state,
			PlayerCount: r.roster.Len(),
			Nicknames:   r.roster.Nicknames(),
		}
	}) {
		return RoomSnapshot{}, false
	}
	select {
	case snap := <-reply:
		return snap, true
	case <-r.done:
		return RoomSnapshot{}, false
	}
}

// --- outbound helpers, actor-only ---

func (r *Room) broadcast(ev Event) {
	for _, p := range r.roster.All() {
		if p.session != nil {
			p.session.Send(ev)
		}
	}
}

func (r *Room) sendTo(p *Participant, ev Event) {
	if p != nil && p.session != nil {
		p.session.Send(ev)
	}
}

func (r *Room) broadcastMafia(ev Event) {
	for _, p := range r.roster.LivingWithRole(RoleMafia) {
		if p.session != nil {
			p.session.Send(ev)
		}
	}
}

func (r *Room) systemMessage(text string) {
	r.broadcast(Event{Name: EvSystemMessage, Data: text})
}

func (r *Room) systemMessageTo(p *Participant, text string) {
	r.sendTo(p, Event{Name: EvSystemMessage, Data: text})
}

// broadcastRoster pushes the player list; roles stay hidden until the
// game is over.
func (r *Room) broadcastRoster() {
	reveal := r.state == StateGameOver
	infos := make([]PlayerInfo, 0, r.roster.Len())
	for _, p := range r.roster.All() {
		infos = append(infos, p.info(reveal))
	}
	r.broadcast(Event{Name: EvPlayersUpdate, Data: infos})
}

func (r *Room) playerInfos(reveal bool) []PlayerInfo {
	infos := make([]PlayerInfo, 0, r.roster.Len())
	for _, p := range r.roster.All() {
		infos = append(infos, p.info(reveal))
	}
	return infos
}
