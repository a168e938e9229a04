package game

import (
	"fmt"

	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

// Every transition guards on the state it expects to leave, so a stale
// expiry against a room that already moved on falls through quietly.

func (r *Room) beginFirstDay() {
	if r.state != StateRoleReveal {
		logger.Warningf("[Room %s] first day trigger in state %s ignored", r.id, r.state)
		return
	}
	r.setState(StatePlaying)
	r.broadcast(Event{Name: EvGameStateUpdate, Data: GameStateUpdate{
		State:    r.state.String(),
		Day:      1,
		Phase:    PhaseDay,
		SubPhase: SubPhaseDiscussion,
	}})
	r.startDay(1)
}

func (r *Room) startDay(day int) {
	if r.state != StatePlaying {
		logger.Warningf("[Room %s] day start in state %s ignored", r.id, r.state)
		return
	}
	r.phase = PhaseDay
	r.subPhase = SubPhaseDiscussion
	r.day = day
	r.nominated = ""
	r.lastExecution = nil
	for _, p := range r.roster.All() {
		p.NominationVote = ""
		p.ExecutionVote = ""
	}
	logger.Infof("[Room %s] day %d started", r.id, day)

	msg := fmt.Sprintf("Day %d has begun. Discuss freely.", day)
	r.broadcast(Event{Name: EvPhaseChange, Data: PhaseChange{
		Phase:          PhaseDay,
		SubPhase:       SubPhaseDiscussion,
		Day:            day,
		TimeLeft:       r.cfg.Durations.Discussion,
		TransitionType: "dayStart",
		Message:        msg,
	}})
	r.systemMessage(msg)

	r.startPhaseTimer(r.cfg.Durations.Discussion, r.startNomination)
	r.bots.discuss()
}

func (r *Room) startNomination() {
	if r.state != StatePlaying || r.phase != PhaseDay || r.subPhase != SubPhaseDiscussion {
		logger.Warningf("[Room %s] nomination start from %s/%s ignored", r.id, r.phase, r.subPhase)
		return
	}
	r.subPhase = SubPhaseNomination
	for _, p := range r.roster.All() {
		p.NominationVote = ""
	}
	logger.Infof("[Room %s] nomination phase started", r.id)

	r.broadcast(Event{Name: EvPhaseChange, Data: PhaseChange{
		Phase:    PhaseDay,
		SubPhase: SubPhaseNomination,
		Day:      r.day,
		TimeLeft: r.cfg.Durations.Nomination,
	}})
	r.systemMessage(fmt.Sprintf("Nominate the player you suspect. (%ds)", r.cfg.Durations.Nomination))

	r.startPhaseTimer(r.cfg.Durations.Nomination, r.resolveNomination)
	r.bots.nominate()
}

func (r *Room) resolveNomination() {
	if r.state != StatePlaying || r.phase != PhaseDay || r.subPhase != SubPhaseNomination {
		logger.Warningf("[Room %s] nomination resolve from %s/%s ignored", r.id, r.phase, r.subPhase)
		return
	}

	out := TallyNominations(r.roster.Living())
	r.broadcast(Event{Name: EvNominationVoteResult, Data: out})

	if out.Nominated != "" {
		r.nominated = out.Nominated
		logger.Infof("[Room %s] %s was nominated", r.id, out.Nominated)
		r.systemMessage(fmt.Sprintf("%s received the most votes. The defense begins.", out.Nominated))
		r.startPhaseTimer(r.cfg.Durations.NominationAnnounce, r.startDefense)
		return
	}

	r.nominated = ""
	if out.Tie {
		r.systemMessage("The vote was tied, nobody is nominated. Night falls.")
	} else {
		r.systemMessage("No votes were cast, nobody is nominated. Night falls.")
	}
	logger.Infof("[Room %s] nomination void (tie=%v)", r.id, out.Tie)
	r.startPhaseTimer(r.cfg.Durations.NominationAnnounce, r.startNight)
}

func (r *Room) startDefense() {
	if r.state != StatePlaying || r.nominated == "" || r.subPhase != SubPhaseNomination {
		logger.Warningf("[Room %s] defense start ignored (nominated=%q, subPhase=%s)", r.id, r.nominated, r.subPhase)
		return
	}
	r.subPhase = SubPhaseDefense
	logger.Infof("[Room %s] defense phase for %s", r.id, r.nominated)

	r.broadcast(Event{Name: EvPhaseChange, Data: PhaseChange{
		Phase:           PhaseDay,
		SubPhase:        SubPhaseDefense,
		Day:             r.day,
		TimeLeft:        r.cfg.Durations.Defense,
		NominatedPlayer: r.nominated,
	}})
	r.systemMessage(fmt.Sprintf("%s may now give a final defense. (%ds)", r.nominated, r.cfg.Durations.Defense))

	r.startPhaseTimer(r.cfg.Durations.Defense, r.startExecutionVote)
	r.bots.defend()
}

func (r *Room) startExecutionVote() {
	if r.state != StatePlaying || r.nominated == "" || r.subPhase != SubPhaseDefense {
		logger.Warningf("[Room %s] execution vote start ignored (nominated=%q, subPhase=%s)", r.id, r.nominated, r.subPhase)
		return
	}
	r.subPhase = SubPhaseExecution
	for _, p := range r.roster.All() {
		p.ExecutionVote = ""
	}
	logger.Infof("[Room %s] execution vote on %s", r.id, r.nominated)

	r.broadcast(Event{Name: EvPhaseChange, Data: PhaseChange{
		Phase:           PhaseDay,
		SubPhase:        SubPhaseExecution,
		Day:             r.day,
		TimeLeft:        r.cfg.Durations.Execution,
		NominatedPlayer: r.nominated,
	}})
	r.systemMessage(fmt.Sprintf("Vote on executing %s. (%ds)", r.nominated, r.cfg.Durations.Execution))

	r.startPhaseTimer(r.cfg.Durations.Execution, r.resolveExecution)
	r.bots.voteExecution()
}

func (r *Room) resolveExecution() {
	if r.state != StatePlaying || r.nominated == "" || r.subPhase != SubPhaseExecution {
		logger.Warningf("[Room %s] execution resolve ignored (nominated=%q, subPhase=%s)", r.id, r.nominated, r.subPhase)
		return
	}
	r.subPhase = SubPhaseResult

	out := TallyExecution(r.roster.Living(), r.nominated)
	target := r.roster.Find(r.nominated)

	if out.Executed && target != nil && target.Alive {
		target.Alive = false
		out.Role = target.Role
		out.Innocent = target.Role == RoleCitizen
		logger.Infof("[Room %s] %s executed (%s)", r.id, target.Nickname, target.Role)
		roleText := "a citizen"
		if target.Role == RoleMafia {
			roleText = "mafia"
		}
		r.systemMessage(fmt.Sprintf("%s was executed. They were %s.", target.Nickname, roleText))
		r.broadcastRoster()
	} else {
		out.Executed = false
		logger.Infof("[Room %s] %s was not executed (%d yes / %d no)", r.id, r.nominated, out.Yes, out.No)
		r.systemMessage(fmt.Sprintf("%s was not executed.", r.nominated))
	}
	r.lastExecution = &out

	r.broadcast(Event{Name: EvExecutionResult, Data: out})
	r.broadcast(Event{Name: EvPhaseChange, Data: PhaseChange{
		Phase:           PhaseDay,
		SubPhase:        SubPhaseResult,
		Day:             r.day,
		TimeLeft:        r.cfg.Durations.Result,
		NominatedPlayer: r.nominated,
		VoteResult:      &out,
	}})

	r.startPhaseTimer(r.cfg.Durations.Result, r.finishDayResult)
}

func (r *Room) finishDayResult() {
	if r.state != StatePlaying || r.subPhase != SubPhaseResult {
		logger.Warningf("[Room %s] day result finish from %s ignored", r.id, r.subPhase)
		return
	}
	if r.lastExecution != nil && r.lastExecution.Executed {
		if winner := r.decideWinner(); winner != WinnerNone {
			r.endGame(winner)
			return
		}
	}
	r.startNight()
}

func (r *Room) startNight() {
	if r.state != StatePlaying || r.phase != PhaseDay {
		logger.Warningf("[Room %s] night start from state %s phase %s ignored", r.id, r.state, r.phase)
		return
	}
	r.phase = PhaseNight
	r.subPhase = SubPhaseNone
	r.mafiaTarget = ""
	logger.Infof("[Room %s] night %d started", r.id, r.day)

	r.broadcast(Event{Name: EvPhaseChange, Data: PhaseChange{
		Phase:          PhaseNight,
		Day:            r.day,
		TimeLeft:       r.cfg.Durations.Night,
		TransitionType: "nightStart",
		Message:        "Night has fallen. The mafia pick their target; everyone else waits for morning.",
	}})
	r.systemMessage(fmt.Sprintf("Night %d has begun.", r.day))

	r.startPhaseTimer(r.cfg.Durations.Night, r.endNight)
	r.bots.actAtNight()
}

func (r *Room) endNight() {
	if r.state != StatePlaying || r.phase != PhaseNight {
		logger.Warningf("[Room %s] night end from state %s phase %s ignored", r.id, r.state, r.phase)
		return
	}

	killed := ""
	if r.mafiaTarget != "" {
		target := r.roster.Find(r.mafiaTarget)
		if target != nil && target.Alive && target.Role == RoleCitizen {
			target.Alive = false
			killed = target.Nickname
			logger.Infof("[Room %s] %s was killed in the night", r.id, killed)
			r.broadcastRoster()
			if winner := r.decideWinner(); winner != WinnerNone {
				r.endGame(winner)
				return
			}
		} else {
			logger.Infof("[Room %s] night target %q invalid or already dead", r.id, r.mafiaTarget)
		}
	}

	r.broadcast(Event{Name: EvNightActivityResult, Data: NightResult{
		Killed:   killed,
		NoVictim: killed == "",
		Day:      r.day + 1,
	}})

	r.startPhaseTimer(r.cfg.Durations.NightResult, r.beginNextDay)
}

func (r *Room) beginNextDay() {
	if r.state != StatePlaying || r.phase != PhaseNight {
		logger.Warningf("[Room %s] next day trigger from state %s phase %s ignored", r.id, r.state, r.phase)
		return
	}
	r.phase = PhaseDay
	r.startDay(r.day + 1)
}

func (r *Room) decideWinner() Winner {
	mafia := len(r.roster.LivingWithRole(RoleMafia))
	citizens := len(r.roster.LivingWithRole(RoleCitizen))
	winner := DecideWinner(mafia, citizens)
	logger.Debugf("[Room %s] win check: mafia=%d citizens=%d -> %q", r.id, mafia, citizens, winner)
	return winner
}

func (r *Room) endGame(winner Winner) {
	r.cancelPhaseTimer()
	r.setState(StateGameOver)
	logger.Infof("[Room %s] game over, %s wins", r.id, winner)

	r.broadcast(Event{Name: EvGameStateUpdate, Data: GameStateUpdate{
		State:   r.state.String(),
		Winner:  winner,
		Players: r.playerInfos(true),
	}})
	if winner == WinnerMafia {
		r.systemMessage("The mafia match the citizens in number. The mafia win.")
	} else {
		r.systemMessage("Every mafia member has been eliminated. The citizens win.")
	}
	r.broadcastRoster()
}
