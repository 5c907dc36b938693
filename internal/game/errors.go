package game

import "errors"

// Session errors. All are recoverable conditions the transport layer
// reports back to the offending client; none are fatal to the process.
// Callers match them with errors.Is.
var (
	ErrGameFull            = errors.New("game: game is full")
	ErrPlayerAlreadyExists = errors.New("game: player already exists")
	ErrNotEnoughPlayers    = errors.New("game: not enough players")
	ErrPlayerNotFound      = errors.New("game: player not found")
	ErrGameNotStarted      = errors.New("game: game has not started")
	ErrGameAlreadyStarted  = errors.New("game: game has already started")
	ErrInvalidRound        = errors.New("game: invalid round")
)
