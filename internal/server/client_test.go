package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitgub616/txt-mafia-v0/internal/game"
)

func awaitEvent(t *testing.T, c *Client, name string) game.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-c.send:
			if ev.Name == name {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %s event arrived", name)
		}
	}
}

func TestDispatchJoinRoomRoutesToRegistry(t *testing.T) {
	registry := newTestRegistry()
	client := NewClient(nil, registry)

	client.dispatch(inboundMessage{Type: "joinRoom", RoomID: "lobby", Nickname: "alice", IsHost: true})

	require.NotNil(t, client.room)
	_, ok := registry.Lookup("lobby")
	assert.True(t, ok)
	awaitEvent(t, client, game.EvPlayersUpdate)
}

func TestDispatchIgnoresIncompleteJoin(t *testing.T) {
	registry := newTestRegistry()
	client := NewClient(nil, registry)

	client.dispatch(inboundMessage{Type: "joinRoom", RoomID: "lobby"})
	assert.Nil(t, client.room)
	assert.Empty(t, registry.RoomIDs())
}

func TestDispatchRoomBoundActionsRequireARoom(t *testing.T) {
	registry := newTestRegistry()
	client := NewClient(nil, registry)

	// None of these may panic or touch the registry without a room.
	for _, typ := range []string{
		"leaveRoom", "startGame", "addAiPlayer", "removeAiPlayer",
		"submitNominationVote", "submitExecutionVote", "mafiaTarget", "sendMessage",
	} {
		client.dispatch(inboundMessage{Type: typ})
	}
	assert.Empty(t, registry.RoomIDs())
}

func TestDispatchFindAvailableRoom(t *testing.T) {
	registry := newTestRegistry()

	seeder := NewClient(nil, registry)
	seeder.dispatch(inboundMessage{Type: "joinRoom", RoomID: "open", Nickname: "host", IsHost: true})
	awaitEvent(t, seeder, game.EvPlayersUpdate)

	t.Run("finds the waiting room", func(t *testing.T) {
		client := NewClient(nil, registry)
		client.dispatch(inboundMessage{Type: "findAvailableRoom", Nickname: "alice"})

		ev := awaitEvent(t, client, game.EvAvailableRoom)
		resp := ev.Data.(game.AvailableRoom)
		assert.True(t, resp.Found)
		assert.Equal(t, "open", resp.RoomID)
	})

	t.Run("reports a nickname clash", func(t *testing.T) {
		client := NewClient(nil, registry)
		client.dispatch(inboundMessage{Type: "findAvailableRoom", Nickname: "host"})

		ev := awaitEvent(t, client, game.EvAvailableRoom)
		resp := ev.Data.(game.AvailableRoom)
		assert.False(t, resp.Found)
		assert.NotEmpty(t, resp.Reason)
	})
}

func TestDispatchRoomStatsReply(t *testing.T) {
	registry := newTestRegistry()
	client := NewClient(nil, registry)

	client.dispatch(inboundMessage{Type: "requestRoomStats"})

	ev := awaitEvent(t, client, game.EvRoomStats)
	stats := ev.Data.(game.RoomStats)
	assert.Equal(t, 0, stats.Total)
	assert.NotEmpty(t, stats.Timestamp)
}

func TestSendDropsWhenTheBufferIsFull(t *testing.T) {
	client := NewClient(nil, newTestRegistry())

	for i := 0; i < cap(client.send)+10; i++ {
		client.Send(game.Event{Name: game.EvSystemMessage, Data: i})
	}
	assert.Len(t, client.send, cap(client.send))
}
