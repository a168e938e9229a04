package server

import (
	"encoding/json"
	"sync"

	"golang.org/x/time/rate"

	"github.com/hitgub616/txt-mafia-v0/internal/game"
	"github.com/hitgub616/txt-mafia-v0/internal/logger"
)

// inboundMessage is the union of everything a client may send; Type
// picks which fields matter.
type inboundMessage struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	IsHost      bool   `json:"isHost,omitempty"`
	Target      string `json:"target,omitempty"`
	Vote        string `json:"vote,omitempty"`
	Content     string `json:"content,omitempty"`
	IsMafiaChat bool   `json:"isMafiaChat,omitempty"`
}

// Client is one websocket connection. It implements game.Session; the
// room side never blocks on a slow socket because Send drops into a
// buffered channel consumed by the write pump.
type Client struct {
	conn     *wsConn
	registry *game.Registry
	room     *game.Room
	limiter  *rate.Limiter

	send      chan game.Event
	closed    chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *wsConn, registry *game.Registry) *Client {
	return &Client{
		conn:     conn,
		registry: registry,
		limiter:  rate.NewLimiter(1, 5),
		send:     make(chan game.Event, 256),
		closed:   make(chan struct{}),
	}
}

// Send implements game.Session. A client that cannot keep up loses
// events rather than stalling a room.
func (c *Client) Send(ev game.Event) {
	select {
	case c.send <- ev:
	case <-c.closed:
	default:
		logger.Warningf("client send buffer full, dropping %s", ev.Name)
	}
}

// Close implements game.Session.
func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close(reason)
	})
}

// ReadPump decodes inbound messages until the socket dies, then
// detaches the session from its participant. The participant itself
// survives for a reconnect; only an explicit leaveRoom removes it.
func (c *Client) ReadPump() {
	defer func() {
		if c.room != nil {
			c.room.Detach(c)
		}
		c.Close("")
	}()

	for {
		data, err := c.conn.Read()
		if err != nil {
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debugf("bad client message dropped: %v", err)
			continue
		}
		c.dispatch(msg)
	}
}

// WritePump serializes outbound events and keeps the connection alive.
func (c *Client) WritePump() {
	ping, stopPing := pingTicker()
	defer stopPing()

	for {
		select {
		case <-c.closed:
			return
		case ev := <-c.send:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Criticalf("failed to marshal %s event: %v", ev.Name, err)
				continue
			}
			if err := c.conn.Write(data); err != nil {
				c.Close("")
				return
			}
		case <-ping:
			if err := c.conn.Ping(); err != nil {
				c.Close("")
				return
			}
		}
	}
}

func (c *Client) dispatch(msg inboundMessage) {
	switch msg.Type {
	case "joinRoom":
		if msg.RoomID == "" || msg.Nickname == "" {
			return
		}
		c.room = c.registry.JoinRoom(msg.RoomID, msg.Nickname, msg.IsHost, c)

	case "leaveRoom":
		if c.room != nil {
			c.room.Leave(c)
			c.room = nil
		}

	case "startGame":
		if c.room != nil {
			c.room.StartGame(c)
		}

	case "addAiPlayer":
		if c.room != nil {
			c.room.AddAIPlayer(c)
		}

	case "removeAiPlayer":
		if c.room != nil {
			c.room.RemoveAIPlayer(c)
		}

	case "submitNominationVote":
		if c.room != nil {
			c.room.SubmitNominationVote(c, msg.Target)
		}

	case "submitExecutionVote":
		if c.room != nil {
			c.room.SubmitExecutionVote(c, msg.Vote)
		}

	case "mafiaTarget":
		if c.room != nil {
			c.room.SetMafiaTarget(c, msg.Target)
		}

	case "sendMessage":
		if c.room == nil || !c.limiter.Allow() {
			return
		}
		c.room.SendChat(c, msg.Content, msg.IsMafiaChat)

	case "findAvailableRoom":
		roomID, found := c.registry.FindAvailableRoom(msg.Nickname)
		resp := game.AvailableRoom{Found: found, RoomID: roomID}
		if !found {
			resp.Reason = "nickname_conflict_or_no_room"
		}
		c.Send(game.Event{Name: game.EvAvailableRoom, Data: resp})

	case "requestRoomStats":
		c.Send(game.Event{Name: game.EvRoomStats, Data: c.registry.Stats()})

	default:
		logger.Debugf("unknown client message type %q dropped", msg.Type)
	}
}
