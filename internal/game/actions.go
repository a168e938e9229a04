package game

import (
	"fmt"

	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

// Exported action entry points. Each one posts onto the room actor;
// the handler below it runs there. Invalid actions are logged and
// dropped, surfaced at most to the acting session, never to the room.

func (r *Room) Join(nickname string, asHost bool, sess Session) {
	r.post(func() { r.handleJoin(nickname, asHost, sess) })
}

func (r *Room) Leave(sess Session) {
	r.post(func() { r.handleLeave(sess) })
}

// Detach drops the connection but keeps the participant; an explicit
// leave is the only thing that removes one. Rejoining under the same
// nickname picks the seat back up.
func (r *Room) Detach(sess Session) {
	r.post(func() {
		if p := r.roster.FindBySession(sess); p != nil {
			p.session = nil
			logger.Infof("[Room %s] %s disconnected", r.id, p.Nickname)
		}
	})
}

func (r *Room) StartGame(sess Session) {
	r.post(func() { r.handleStartGame(sess) })
}

func (r *Room) AddAIPlayer(sess Session) {
	r.post(func() { r.handleAddAI(sess) })
}

func (r *Room) RemoveAIPlayer(sess Session) {
	r.post(func() { r.handleRemoveAI(sess) })
}

func (r *Room) SubmitNominationVote(sess Session, target string) {
	r.post(func() {
		p := r.roster.FindBySession(sess)
		if p == nil {
			logger.Warningf("[Room %s] nomination vote from unknown session", r.id)
			return
		}
		r.applyNominationVote(p, target)
	})
}

func (r *Room) SubmitExecutionVote(sess Session, vote string) {
	r.post(func() {
		p := r.roster.FindBySession(sess)
		if p == nil {
			logger.Warningf("[Room %s] execution vote from unknown session", r.id)
			return
		}
		r.applyExecutionVote(p, vote)
	})
}

func (r *Room) SetMafiaTarget(sess Session, target string) {
	r.post(func() {
		p := r.roster.FindBySession(sess)
		if p == nil {
			logger.Warningf("[Room %s] mafia target from unknown session", r.id)
			return
		}
		r.applyMafiaTarget(p, target)
	})
}

func (r *Room) SendChat(sess Session, content string, mafiaChat bool) {
	r.post(func() {
		p := r.roster.FindBySession(sess)
		if p == nil || !p.Alive {
			logger.Debugf("[Room %s] chat from dead or unknown sender dropped", r.id)
			return
		}
		r.deliverChat(p, content, mafiaChat)
	})
}

// --- actor handlers ---

func (r *Room) handleJoin(nickname string, asHost bool, sess Session) {
	p, err := r.roster.Join(nickname, asHost, sess)
	if err != nil {
		logger.Infof("[Room %s] join rejected for %q: %v", r.id, nickname, err)
		if sess != nil {
			sess.Send(Event{Name: EvJoinRoomError, Data: JoinError{
				Type:           "nickname_taken",
				Message:        "That nickname is already in use. Pick another one.",
				TakenNicknames: r.roster.Nicknames(),
			}})
		}
		return
	}

	logger.Infof("[Room %s] %s joined (host=%v, players=%d)", r.id, nickname, p.IsHost, r.roster.Len())
	r.broadcastRoster()
	r.broadcast(Event{Name: EvTakenNicknames, Data: r.roster.Nicknames()})

	r.sendTo(p, Event{Name: EvGameStateUpdate, Data: GameStateUpdate{
		State:    r.state.String(),
		Day:      r.day,
		Phase:    r.phase,
		SubPhase: r.subPhase,
	}})

	// A reconnect mid-game needs its role and the current phase back.
	if r.state == StatePlaying {
		r.sendTo(p, Event{Name: EvGameStateUpdate, Data: GameStateUpdate{
			State:    r.state.String(),
			Role:     p.Role,
			Day:      r.day,
			Phase:    r.phase,
			SubPhase: r.subPhase,
		}})
		r.sendTo(p, Event{Name: EvPhaseChange, Data: PhaseChange{
			Phase:           r.phase,
			SubPhase:        r.subPhase,
			Day:             r.day,
			TimeLeft:        r.timeLeft,
			NominatedPlayer: r.nominated,
		}})
		r.sendTo(p, Event{Name: EvTimeUpdate, Data: r.timeLeft})
		if r.phase == PhaseDay && r.subPhase == SubPhaseResult && r.lastExecution != nil {
			r.sendTo(p, Event{Name: EvExecutionResult, Data: r.lastExecution})
		}
	}
}

func (r *Room) handleLeave(sess Session) {
	p := r.roster.FindBySession(sess)
	if p == nil {
		return
	}
	r.roster.Remove(p.Nickname)
	logger.Infof("[Room %s] %s left (players=%d)", r.id, p.Nickname, r.roster.Len())

	if r.roster.Len() == 0 {
		r.destroy()
		return
	}
	r.broadcastRoster()
	r.systemMessage(fmt.Sprintf("%s left the game.", p.Nickname))
}

func (r *Room) handleStartGame(sess Session) {
	p := r.roster.FindBySession(sess)
	if p == nil || !p.IsHost {
		r.rejectAction(p, sess, "You are not allowed to start the game.")
		return
	}
	if r.state != StateWaiting && r.state != StateGameOver {
		logger.Warningf("[Room %s] start rejected in state %s", r.id, r.state)
		return
	}
	n := r.roster.Len()
	if n < r.cfg.MinPlayers {
		r.systemMessageTo(p, fmt.Sprintf("At least %d players are needed to start.", r.cfg.MinPlayers))
		return
	}
	if n > r.cfg.MaxPlayers {
		r.systemMessageTo(p, fmt.Sprintf("No more than %d players can take part.", r.cfg.MaxPlayers))
		return
	}

	r.assignRoles()
	r.setState(StateRoleReveal)
	logger.Infof("[Room %s] game starting with %d players", r.id, n)
	r.broadcastRoster()

	r.broadcast(Event{Name: EvGameStateUpdate, Data: GameStateUpdate{State: r.state.String()}})
	for _, member := range r.roster.All() {
		r.sendTo(member, Event{Name: EvGameStateUpdate, Data: GameStateUpdate{
			State: r.state.String(),
			Role:  member.Role,
		}})
	}
	r.startPhaseTimer(r.cfg.Durations.RoleReveal, r.beginFirstDay)
}

// assignRoles deals mafia to a shuffled prefix: 1 for up to 5 players,
// 2 for up to 8, 3 past that. Everyone comes back alive with empty
// vote slots.
func (r *Room) assignRoles() {
	players := r.roster.All()
	n := len(players)

	mafiaCount := 1
	switch {
	case n > 8:
		mafiaCount = 3
	case n > 5:
		mafiaCount = 2
	}

	for _, p := range players {
		p.Role = RoleCitizen
		p.Alive = true
		p.NominationVote = ""
		p.ExecutionVote = ""
	}
	for i, idx := range r.dice.Perm(n) {
		if i >= mafiaCount {
			break
		}
		players[idx].Role = RoleMafia
	}
	r.nominated = ""
	r.mafiaTarget = ""
	r.lastExecution = nil
}

func (r *Room) handleAddAI(sess Session) {
	p := r.roster.FindBySession(sess)
	if p == nil || !p.IsHost {
		r.rejectAction(p, sess, "You are not allowed to add AI players.")
		return
	}
	if r.state != StateWaiting && r.state != StateGameOver {
		logger.Warningf("[Room %s] AI add rejected in state %s", r.id, r.state)
		return
	}
	if r.roster.Len() >= r.cfg.MaxPlayers {
		r.systemMessageTo(p, fmt.Sprintf("No more than %d players can take part.", r.cfg.MaxPlayers))
		return
	}

	ai := r.roster.AddAI(r.bots.pickName())
	logger.Infof("[Room %s] AI player %s added", r.id, ai.Nickname)
	r.broadcastRoster()
	r.broadcast(Event{Name: EvTakenNicknames, Data: r.roster.Nicknames()})
	r.systemMessage(fmt.Sprintf("AI player %s joined the game.", ai.Nickname))
}

// handleRemoveAI drops the most recently added AI player.
func (r *Room) handleRemoveAI(sess Session) {
	p := r.roster.FindBySession(sess)
	if p == nil || !p.IsHost {
		r.rejectAction(p, sess, "You are not allowed to remove AI players.")
		return
	}
	ai := r.roster.LastAI()
	if ai == nil {
		r.systemMessageTo(p, "There is no AI player to remove.")
		return
	}
	r.roster.Remove(ai.Nickname)
	logger.Infof("[Room %s] AI player %s removed", r.id, ai.Nickname)
	r.broadcastRoster()
	r.broadcast(Event{Name: EvTakenNicknames, Data: r.roster.Nicknames()})
	r.systemMessage(fmt.Sprintf("AI player %s was removed from the game.", ai.Nickname))
}

// --- shared mutation paths; bots call these directly ---

func (r *Room) applyNominationVote(p *Participant, target string) {
	if !p.Alive || r.state != StatePlaying || r.phase != PhaseDay || r.subPhase != SubPhaseNomination {
		logger.Debugf("[Room %s] nomination vote by %s dropped (alive=%v, phase=%s/%s)", r.id, p.Nickname, p.Alive, r.phase, r.subPhase)
		return
	}
	if target == p.Nickname {
		logger.Debugf("[Room %s] %s tried to nominate themselves", r.id, p.Nickname)
		return
	}
	p.NominationVote = target
	logger.Infof("[Room %s] %s nominated %q", r.id, p.Nickname, target)
	r.broadcast(Event{Name: EvNominationVoteUpdate, Data: countNominationBallots(r.roster.Living())})
}

func (r *Room) applyExecutionVote(p *Participant, vote string) {
	if !p.Alive || r.state != StatePlaying || r.subPhase != SubPhaseExecution {
		logger.Debugf("[Room %s] execution vote by %s dropped (alive=%v, subPhase=%s)", r.id, p.Nickname, p.Alive, r.subPhase)
		return
	}
	if p.Nickname == r.nominated {
		logger.Debugf("[Room %s] nominee %s tried to vote on their own execution", r.id, p.Nickname)
		return
	}
	if vote != VoteYes && vote != VoteNo && vote != "" {
		logger.Debugf("[Room %s] invalid execution vote %q by %s", r.id, vote, p.Nickname)
		return
	}
	p.ExecutionVote = vote
	logger.Infof("[Room %s] %s voted %q on executing %s", r.id, p.Nickname, vote, r.nominated)
	r.broadcast(Event{Name: EvExecutionVoteUpdate, Data: countExecutionBallots(r.roster.Living())})
}

// applyMafiaTarget is last-writer-wins: the final living mafia vote
// before night ends is the one carried out.
func (r *Room) applyMafiaTarget(p *Participant, target string) {
	if !p.Alive || p.Role != RoleMafia || r.state != StatePlaying || r.phase != PhaseNight {
		logger.Debugf("[Room %s] mafia target by %s dropped (alive=%v, role=%s, phase=%s)", r.id, p.Nickname, p.Alive, p.Role, r.phase)
		return
	}
	r.mafiaTarget = target
	logger.Infof("[Room %s] %s set the mafia target to %q", r.id, p.Nickname, target)
	if target != "" {
		r.broadcastMafia(Event{Name: EvSystemMessage, Data: fmt.Sprintf("%s chose %s as the target.", p.Nickname, target)})
	}
}

func (r *Room) deliverChat(p *Participant, content string, mafiaChat bool) {
	msg := newChatMessage(p.Nickname, content, mafiaChat)
	if mafiaChat {
		r.broadcastMafia(Event{Name: EvChatMessage, Data: msg})
		return
	}
	r.broadcast(Event{Name: EvChatMessage, Data: msg})
}

func (r *Room) rejectAction(p *Participant, sess Session, reason string) {
	name := "unknown"
	if p != nil {
		name = p.Nickname
	}
	logger.Warningf("[Room %s] rejected privileged action by %s", r.id, name)
	if p != nil {
		r.systemMessageTo(p, reason)
	} else if sess != nil {
		sess.Send(Event{Name: EvSystemMessage, Data: reason})
	}
}
