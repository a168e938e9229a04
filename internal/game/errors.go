package game

import "errors"

// ErrNicknameTaken rejects a join whose nickname already belongs to a
// different live connection in the room.
var ErrNicknameTaken = errors.New("nickname taken")
