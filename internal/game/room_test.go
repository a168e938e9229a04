package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRolesMafiaCounts(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		players   int
		wantMafia int
	}{
		{2, 1}, {3, 1}, {4, 1}, {5, 1},
		{6, 2}, {7, 2}, {8, 2},
		{9, 3},
	} {
		t.Run(fmt.Sprintf("%d players", tc.players), func(t *testing.T) {
			r := newTestRoom(testConfig())
			for i := 0; i < tc.players; i++ {
				mustJoin(t, r, fmt.Sprintf("player%d", i), i == 0)
			}

			r.assignRoles()

			mafia := 0
			for _, p := range r.roster.All() {
				require.NotEqual(t, RoleUnassigned, p.Role, "everyone gets a role")
				assert.True(t, p.Alive)
				assert.Empty(t, p.NominationVote)
				assert.Empty(t, p.ExecutionVote)
				if p.Role == RoleMafia {
					mafia++
				}
			}
			assert.Equal(t, tc.wantMafia, mafia)
		})
	}
}

func TestStartGameRequiresHost(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	mustJoin(t, r, "host", true)
	_, guestSess := mustJoin(t, r, "guest", false)

	r.handleStartGame(guestSess)

	assert.Equal(t, StateWaiting, r.state)
	msg, ok := guestSess.last(EvSystemMessage)
	require.True(t, ok)
	assert.Contains(t, msg.Data, "not allowed")
}

func TestStartGameEnforcesPlayerBounds(t *testing.T) {
	t.Parallel()

	t.Run("too few", func(t *testing.T) {
		r := newTestRoom(testConfig())
		_, hostSess := mustJoin(t, r, "host", true)

		r.handleStartGame(hostSess)

		assert.Equal(t, StateWaiting, r.state)
		msg, ok := hostSess.last(EvSystemMessage)
		require.True(t, ok)
		assert.Contains(t, msg.Data, "At least")
	})

	t.Run("enough players moves to role reveal", func(t *testing.T) {
		r := newTestRoom(testConfig())
		_, hostSess := mustJoin(t, r, "host", true)
		mustJoin(t, r, "guest", false)

		r.handleStartGame(hostSess)

		assert.Equal(t, StateRoleReveal, r.state)
		// Each player hears their own role.
		update, ok := hostSess.last(EvGameStateUpdate)
		require.True(t, ok)
		assert.Equal(t, RoleMafia, update.Data.(GameStateUpdate).Role)
	})
}

func TestStartGameIgnoredWhilePlaying(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	_, hostSess := mustJoin(t, r, "host", true)
	mustJoin(t, r, "guest", false)

	r.handleStartGame(hostSess)
	r.beginFirstDay()
	require.Equal(t, StatePlaying, r.state)

	day := r.day
	r.handleStartGame(hostSess)
	assert.Equal(t, StatePlaying, r.state)
	assert.Equal(t, day, r.day)
}

func TestAddAndRemoveAIPlayers(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	_, hostSess := mustJoin(t, r, "host", true)
	_, guestSess := mustJoin(t, r, "guest", false)

	r.handleAddAI(hostSess)
	r.handleAddAI(hostSess)
	require.Equal(t, 4, r.roster.Len())

	// Only the host manages AI players.
	r.handleAddAI(guestSess)
	assert.Equal(t, 4, r.roster.Len())

	names := r.roster.Nicknames()
	first, second := names[2], names[3]
	assert.NotEqual(t, first, second)

	// Removal is last-in-first-out.
	r.handleRemoveAI(hostSess)
	assert.Equal(t, []string{"host", "guest", first}, r.roster.Nicknames())
	r.handleRemoveAI(hostSess)
	assert.Equal(t, []string{"host", "guest"}, r.roster.Nicknames())

	r.handleRemoveAI(hostSess)
	assert.Equal(t, 2, r.roster.Len())
	msg, ok := hostSess.last(EvSystemMessage)
	require.True(t, ok)
	assert.Contains(t, msg.Data, "no AI player")
}

func TestAddAICapsAtMaxPlayers(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	_, hostSess := mustJoin(t, r, "host", true)

	for i := 0; i < 10; i++ {
		r.handleAddAI(hostSess)
	}
	assert.Equal(t, r.cfg.MaxPlayers, r.roster.Len())
}

func TestVoteValidation(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	host, hostSess := mustJoin(t, r, "host", true)
	guest, _ := mustJoin(t, r, "guest", false)
	bystander, _ := mustJoin(t, r, "bystander", false)

	r.handleStartGame(hostSess)
	r.beginFirstDay()
	r.startNomination()
	require.Equal(t, SubPhaseNomination, r.subPhase)

	t.Run("dead voters are ignored", func(t *testing.T) {
		guest.Alive = false
		r.applyNominationVote(guest, "host")
		assert.Empty(t, guest.NominationVote)
		guest.Alive = true
	})

	t.Run("self-nomination is ignored", func(t *testing.T) {
		r.applyNominationVote(host, "host")
		assert.Empty(t, host.NominationVote)
	})

	t.Run("valid nomination sticks", func(t *testing.T) {
		r.applyNominationVote(guest, "host")
		r.applyNominationVote(bystander, "host")
		assert.Equal(t, "host", guest.NominationVote)
	})

	r.resolveNomination()
	require.Equal(t, "host", r.nominated)
	r.startDefense()
	r.startExecutionVote()
	require.Equal(t, SubPhaseExecution, r.subPhase)

	t.Run("the nominee cannot vote on their own execution", func(t *testing.T) {
		r.applyExecutionVote(host, VoteYes)
		assert.Empty(t, host.ExecutionVote)
	})

	t.Run("eligible votes stick", func(t *testing.T) {
		r.applyExecutionVote(guest, VoteYes)
		r.applyExecutionVote(bystander, VoteNo)
		assert.Equal(t, VoteYes, guest.ExecutionVote)
		assert.Equal(t, VoteNo, bystander.ExecutionVote)
	})

	t.Run("mafia target requires night", func(t *testing.T) {
		r.applyMafiaTarget(host, "guest")
		assert.Empty(t, r.mafiaTarget)
	})
}

func TestStaleExpiryAfterTransitionIsNoOp(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	_, hostSess := mustJoin(t, r, "host", true)
	mustJoin(t, r, "guest", false)

	r.handleStartGame(hostSess)
	r.beginFirstDay()
	r.startNomination()
	require.Equal(t, SubPhaseNomination, r.subPhase)

	// Nobody voted: nomination resolves straight toward night.
	r.resolveNomination()
	r.startNight()
	require.Equal(t, PhaseNight, r.phase)

	day := r.day
	// The old nomination expiry arriving late must not re-resolve or
	// double-advance anything.
	r.resolveNomination()
	assert.Equal(t, PhaseNight, r.phase)
	assert.Equal(t, day, r.day)
	assert.Equal(t, SubPhaseNone, r.subPhase)
}

func TestRestartAfterGameOverReusesRoster(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	host, hostSess := mustJoin(t, r, "host", true)
	guest, _ := mustJoin(t, r, "guest", false)

	r.handleStartGame(hostSess)
	r.beginFirstDay()

	// Identity shuffle makes the host mafia; kill the guest at night.
	r.startNomination()
	r.resolveNomination()
	r.startNight()
	r.applyMafiaTarget(host, "guest")
	r.endNight()

	require.Equal(t, StateGameOver, r.state)
	require.False(t, guest.Alive)

	r.handleStartGame(hostSess)
	assert.Equal(t, StateRoleReveal, r.state)
	assert.True(t, guest.Alive, "new game revives the roster")
	assert.Equal(t, 2, r.roster.Len())
}

func TestJoinRejectedForSecondLiveConnection(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	mustJoin(t, r, "alice", false)

	intruder := &recorderSession{}
	r.handleJoin("alice", false, intruder)

	rejection, ok := intruder.last(EvJoinRoomError)
	require.True(t, ok)
	assert.Equal(t, "nickname_taken", rejection.Data.(JoinError).Type)
	assert.Equal(t, 1, r.roster.Len())
}

func TestReconnectMidGameGetsStateBack(t *testing.T) {
	t.Parallel()
	r := newTestRoom(testConfig())
	host, hostSess := mustJoin(t, r, "host", true)
	mustJoin(t, r, "guest", false)

	r.handleStartGame(hostSess)
	r.beginFirstDay()
	require.Equal(t, StatePlaying, r.state)

	// Connection drops, then the host rejoins under the same nickname.
	host.session = nil
	fresh := &recorderSession{}
	r.handleJoin("host", true, fresh)

	require.Same(t, host, r.roster.Find("host"))
	update, ok := fresh.last(EvGameStateUpdate)
	require.True(t, ok)
	assert.Equal(t, RoleMafia, update.Data.(GameStateUpdate).Role)
	_, ok = fresh.last(EvPhaseChange)
	assert.True(t, ok)
}
