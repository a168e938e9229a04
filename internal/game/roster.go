package game

import "github.com/google/uuid"

type Role string

const (
	RoleUnassigned Role = ""
	RoleMafia      Role = "mafia"
	RoleCitizen    Role = "citizen"
)

const (
	VoteYes = "yes"
	VoteNo  = "no"
)

// Participant is one roster entry. The nickname is the identity key
// within a room; the session handle is replaceable across reconnects.
// Alive only ever flips true to false.
type Participant struct {
	ID       string
	Nickname string
	IsHost   bool
	Role     Role
	Alive    bool
	IsAI     bool

	// Per-round vote slots, cleared when their phase begins.
	NominationVote string
	ExecutionVote  string

	session Session
}

func (p *Participant) info(revealRole bool) PlayerInfo {
	info := PlayerInfo{
		ID:       p.ID,
		Nickname: p.Nickname,
		IsHost:   p.IsHost,
		IsAlive:  p.Alive,
		IsAI:     p.IsAI,
	}
	if revealRole {
		info.Role = p.Role
	}
	return info
}

// Roster holds a room's participants in join order. It carries no game
// rules; the room decides who may do what.
type Roster struct {
	players []*Participant
}

// Join adds a participant or reconciles a reconnect. The only rejection
// is a nickname that already belongs to a different live connection;
// rejoining under the same nickname replaces the session and preserves
// role, alive and vote state.
func (ro *Roster) Join(nickname string, asHost bool, sess Session) (*Participant, error) {
	if existing := ro.Find(nickname); existing != nil {
		if existing.IsAI || (existing.session != nil && existing.session != sess) {
			return nil, ErrNicknameTaken
		}
		existing.session = sess
		if asHost {
			existing.IsHost = true
		}
		return existing, nil
	}

	p := &Participant{
		ID:       uuid.NewString(),
		Nickname: nickname,
		IsHost:   asHost,
		Alive:    true,
		session:  sess,
	}
	ro.players = append(ro.players, p)
	return p, nil
}

// AddAI appends a simulated participant.
func (ro *Roster) AddAI(nickname string) *Participant {
	p := &Participant{
		ID:       "ai-" + uuid.NewString(),
		Nickname: nickname,
		Alive:    true,
		IsAI:     true,
	}
	ro.players = append(ro.players, p)
	return p
}

// Remove deletes by nickname and reports the removed participant.
func (ro *Roster) Remove(nickname string) *Participant {
	for i, p := range ro.players {
		if p.Nickname == nickname {
			ro.players = append(ro.players[:i], ro.players[i+1:]...)
			return p
		}
	}
	return nil
}

func (ro *Roster) Find(nickname string) *Participant {
	for _, p := range ro.players {
		if p.Nickname == nickname {
			return p
		}
	}
	return nil
}

func (ro *Roster) FindBySession(sess Session) *Participant {
	if sess == nil {
		return nil
	}
	for _, p := range ro.players {
		if p.session == sess {
			return p
		}
	}
	return nil
}

// All returns the join-ordered participants. Callers must not mutate
// the slice.
func (ro *Roster) All() []*Participant {
	return ro.players
}

func (ro *Roster) Len() int {
	return len(ro.players)
}

func (ro *Roster) Living() []*Participant {
	living := make([]*Participant, 0, len(ro.players))
	for _, p := range ro.players {
		if p.Alive {
			living = append(living, p)
		}
	}
	return living
}

func (ro *Roster) LivingWithRole(role Role) []*Participant {
	match := make([]*Participant, 0, len(ro.players))
	for _, p := range ro.players {
		if p.Alive && p.Role == role {
			match = append(match, p)
		}
	}
	return match
}

// LastAI returns the most recently added simulated participant, if any.
func (ro *Roster) LastAI() *Participant {
	for i := len(ro.players) - 1; i >= 0; i-- {
		if ro.players[i].IsAI {
			return ro.players[i]
		}
	}
	return nil
}

func (ro *Roster) Nicknames() []string {
	names := make([]string, 0, len(ro.players))
	for _, p := range ro.players {
		names = append(names, p.Nickname)
	}
	return names
}
