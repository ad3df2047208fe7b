package league

import "errors"

// Sentinel errors surfaced to the presentation layer. Operations that fail
// with any of these leave prior state unchanged.
var (
	ErrEmptyName           = errors.New("player name is empty")
	ErrDuplicateName       = errors.New("player name already exists")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInsufficientPlayers = errors.New("not enough players to fill a court")
	ErrInvalidGameRef      = errors.New("no such round/court")
	ErrInvalidScore        = errors.New("scores must be non-negative")
)
