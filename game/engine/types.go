package engine

import (
	"errors"

	"github.com/wricardo/set-game/game/card"
)

// Status represents the lifecycle state of a game
type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusEnded   Status = "ended"

	// Rule limits
	DefaultFieldSize = 12
	DefaultDrawSize  = 3
	MinFieldSize     = card.SetSize
	MaxFieldSize     = card.DeckSize
)

// PickResult classifies the outcome of a pick
type PickResult string

const (
	// PickSet means the three cards formed a set and were claimed.
	PickSet PickResult = "set"
	// PickNotSet means the cards were on the field but did not form a set.
	PickNotSet PickResult = "not_set"
	// PickRejected means the pick was not evaluated at all.
	PickRejected PickResult = "rejected"
)

var (
	ErrGameEnded      = errors.New("game has ended")
	ErrWrongCardCount = errors.New("exactly 3 cards must be picked")
	ErrDuplicateCard  = errors.New("the same card was picked more than once")
	ErrCardNotOnField = errors.New("card is not on the field")
)

// Rules holds the tunable dealing parameters of a game
type Rules struct {
	FieldSize int `json:"field_size" env:"FIELD_SIZE" envDefault:"12"`
	DrawSize  int `json:"draw_size" env:"DRAW_SIZE" envDefault:"3"`
}

// DefaultRules returns the standard 12-card field with 3-card manual draws
func DefaultRules() Rules {
	return Rules{
		FieldSize: DefaultFieldSize,
		DrawSize:  DefaultDrawSize,
	}
}

// PickOutcome is the result of a single pick attempt
type PickOutcome struct {
	Result PickResult `json:"result"`
	Score  int        `json:"score"`
	// Reason is set only for rejected picks
	Reason error `json:"-"`
}

// IsSet reports whether the pick claimed a set
func (o PickOutcome) IsSet() bool {
	return o.Result == PickSet
}

// Snapshot is an immutable point-in-time copy of a game's state.
// Callers must not modify the slices or maps it holds.
type Snapshot struct {
	Field       []card.Card    `json:"field"`
	Scores      map[string]int `json:"scores"`
	Players     []string       `json:"players"` // join order
	Status      Status         `json:"status"`
	DeckSize    int            `json:"deck_size"`
	SetsClaimed int            `json:"sets_claimed"`
	Version     uint64         `json:"version"`
}

// Score returns the score for token, 0 when the player never joined
func (s *Snapshot) Score(token string) int {
	return s.Scores[token]
}

// CardsAccounted returns |deck| + |field| + 3 x sets claimed, which is
// always card.DeckSize.
func (s *Snapshot) CardsAccounted() int {
	return s.DeckSize + len(s.Field) + card.SetSize*s.SetsClaimed
}
