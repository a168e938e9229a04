package game

// Session is the transport-side handle for one connected player.
// AI players carry no session. Send must not block the caller; a slow
// consumer is the transport's problem, not the room's.
type Session interface {
	Send(ev Event)
	Close(reason string)
}
