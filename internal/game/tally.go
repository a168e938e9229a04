package game

// TallyNominations decides who, if anyone, the living voters nominated.
// The count map mirrors every recorded vote, but votes naming a dead
// target are skipped when looking for the winner. A shared maximum is a
// tie; zero countable votes is "no votes", not a tie.
func TallyNominations(living []*Participant) NominationOutcome {
	alive := make(map[string]bool, len(living))
	for _, p := range living {
		alive[p.Nickname] = true
	}

	out := NominationOutcome{
		Votes:       make(map[string]int),
		VoteDetails: make([]VoteDetail, 0, len(living)),
	}
	for _, p := range living {
		if p.NominationVote == "" {
			continue
		}
		out.Votes[p.NominationVote]++
		out.VoteDetails = append(out.VoteDetails, VoteDetail{Voter: p.Nickname, Target: p.NominationVote})
	}

	max, leaders := 0, 0
	leader := ""
	for target, count := range out.Votes {
		if !alive[target] {
			continue
		}
		switch {
		case count > max:
			max, leader, leaders = count, target, 1
		case count == max:
			leaders++
		}
	}

	switch {
	case max == 0:
		out.Reason = "no votes"
	case leaders > 1:
		out.Tie = true
		out.Reason = "tied vote"
	default:
		out.Nominated = leader
		out.Reason = "most votes"
	}
	return out
}

// TallyExecution decides whether the nominee is executed. Eligible
// voters are the living minus the nominee; abstainers count on neither
// side. Execution needs a strict majority of the cast votes; an exact
// half spares the nominee.
func TallyExecution(living []*Participant, nominee string) ExecutionOutcome {
	out := ExecutionOutcome{Target: nominee}
	for _, p := range living {
		if p.Nickname == nominee || p.ExecutionVote == "" {
			continue
		}
		switch p.ExecutionVote {
		case VoteYes:
			out.Yes++
		case VoteNo:
			out.No++
		default:
			continue
		}
		out.Votes = append(out.Votes, ExecutionBallot{Nickname: p.Nickname, Vote: p.ExecutionVote})
	}
	out.Executed = 2*out.Yes > out.Yes+out.No
	return out
}

// countNominationBallots is the live tally broadcast while the
// nomination window is still open.
func countNominationBallots(living []*Participant) map[string]int {
	votes := make(map[string]int)
	for _, p := range living {
		if p.NominationVote != "" {
			votes[p.NominationVote]++
		}
	}
	return votes
}

// countExecutionBallots is the live yes/no tally during the execution
// vote window.
func countExecutionBallots(living []*Participant) ExecutionTally {
	var tally ExecutionTally
	for _, p := range living {
		switch p.ExecutionVote {
		case VoteYes:
			tally.Yes++
		case VoteNo:
			tally.No++
		}
	}
	return tally
}
