package game

import "time"

// Event is the envelope every outbound notification travels in. The
// event names and payload shapes are the wire contract with the client.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

const (
	EvPlayersUpdate        = "playersUpdate"
	EvGameStateUpdate      = "gameStateUpdate"
	EvPhaseChange          = "phaseChange"
	EvTimeUpdate           = "timeUpdate"
	EvNominationVoteUpdate = "nominationVoteUpdate"
	EvExecutionVoteUpdate  = "executionVoteUpdate"
	EvNominationVoteResult = "nominationVoteResult"
	EvExecutionResult      = "executionResult"
	EvNightActivityResult  = "nightActivityResult"
	EvChatMessage          = "chatMessage"
	EvSystemMessage        = "systemMessage"
	EvJoinRoomError        = "joinRoomError"
	EvTakenNicknames       = "takenCharacters"
	EvAvailableRoom        = "availableRoom"
	EvRoomStats            = "roomStatsUpdate"
)

// PlayerInfo is one roster entry as clients see it. Role is filled in
// only once the game is over.
type PlayerInfo struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	IsHost   bool   `json:"isHost"`
	IsAlive  bool   `json:"isAlive"`
	IsAI     bool   `json:"isAi"`
	Role     Role   `json:"role,omitempty"`
}

type GameStateUpdate struct {
	State    string       `json:"state"`
	Day      int          `json:"day,omitempty"`
	Phase    Phase        `json:"phase,omitempty"`
	SubPhase SubPhase     `json:"subPhase,omitempty"`
	Role     Role         `json:"role,omitempty"`
	Winner   Winner       `json:"winner,omitempty"`
	Players  []PlayerInfo `json:"players,omitempty"`
}

type PhaseChange struct {
	Phase           Phase             `json:"phase"`
	SubPhase        SubPhase          `json:"subPhase,omitempty"`
	Day             int               `json:"day"`
	TimeLeft        int               `json:"timeLeft"`
	NominatedPlayer string            `json:"nominatedPlayer,omitempty"`
	TransitionType  string            `json:"transitionType,omitempty"`
	Message         string            `json:"message,omitempty"`
	VoteResult      *ExecutionOutcome `json:"voteResult,omitempty"`
}

// VoteDetail records who nominated whom.
type VoteDetail struct {
	Voter  string `json:"voter"`
	Target string `json:"target"`
}

// NominationOutcome is what the nomination tally produced.
type NominationOutcome struct {
	Nominated   string         `json:"nominated,omitempty"`
	Votes       map[string]int `json:"votes"`
	VoteDetails []VoteDetail   `json:"voteDetails"`
	Tie         bool           `json:"tie"`
	Reason      string         `json:"reason"`
}

// ExecutionBallot is one living voter's yes/no on the nominee.
type ExecutionBallot struct {
	Nickname string `json:"nickname"`
	Vote     string `json:"vote"`
}

// ExecutionOutcome is what the execution tally produced. Role and
// Innocent are meaningful only when Executed is true.
type ExecutionOutcome struct {
	Target   string            `json:"target"`
	Executed bool              `json:"executed"`
	Yes      int               `json:"yes"`
	No       int               `json:"no"`
	Votes    []ExecutionBallot `json:"votes"`
	Role     Role              `json:"role,omitempty"`
	Innocent bool              `json:"isInnocent,omitempty"`
}

type ExecutionTally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

type NightResult struct {
	Killed   string `json:"killedPlayerNickname,omitempty"`
	NoVictim bool   `json:"noVictim"`
	Day      int    `json:"day"`
}

type ChatMessage struct {
	Sender      string `json:"sender"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	IsMafiaChat bool   `json:"isMafiaChat"`
}

type JoinError struct {
	Type           string   `json:"type"`
	Message        string   `json:"message"`
	TakenNicknames []string `json:"takenCharacters"`
}

type AvailableRoom struct {
	Found  bool   `json:"found"`
	RoomID string `json:"roomId,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// RoomStats aggregates every room by lifecycle state.
type RoomStats struct {
	Waiting   int    `json:"waiting"`
	Playing   int    `json:"playing"`
	GameOver  int    `json:"gameOver"`
	Total     int    `json:"total"`
	Timestamp string `json:"timestamp"`
}

func newChatMessage(sender, content string, mafiaChat bool) ChatMessage {
	return ChatMessage{
		Sender:      sender,
		Content:     content,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		IsMafiaChat: mafiaChat,
	}
}
