package engine

import (
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/wricardo/set-game/game/card"
)

// Game is one room's deck, field and scoreboard.
//
// Every mutation holds mu for its whole critical section and publishes a
// fresh Snapshot before releasing it. Reads never take mu: they load the
// last published snapshot, so a reader may miss a mutation that is still
// in flight but never sees a partially applied one.
type Game struct {
	mu      sync.Mutex
	rules   Rules
	deck    []card.Card // top of the deck is the last element
	field   []card.Card
	scores  map[string]int
	players []string
	status  Status
	claimed int
	version uint64

	snap atomic.Pointer[Snapshot]
}

// Option configures a Game at construction time
type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand shuffles the deck with r instead of the global source
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// NewGame shuffles a full deck and deals the opening field
func NewGame(rules Rules, opts ...Option) (*Game, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	deck := card.Generate()
	shuffle := rand.Shuffle
	if o.rng != nil {
		shuffle = o.rng.Shuffle
	}
	shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	g := &Game{
		rules:  rules,
		deck:   deck,
		field:  make([]card.Card, 0, rules.FieldSize),
		scores: make(map[string]int),
		status: StatusOngoing,
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.draw(rules.FieldSize)
	g.publish()

	return g, nil
}

// Rules returns the rules the game was created with
func (g *Game) Rules() Rules {
	return g.rules
}

// Join adds a player with a zero score; joining again is a no-op
func (g *Game) Join(token string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ensurePlayer(token) {
		g.publish()
	}
}

// Pick validates ids against the field and applies the outcome atomically.
//
// A rejected pick (game ended, wrong count, repeated id, id not on the
// field) changes nothing. A valid set is claimed for +1 and the field is
// refilled; any other triple costs the player 1 point.
func (g *Game) Pick(token string, ids []int) PickOutcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if reason := g.checkPick(ids); reason != nil {
		return PickOutcome{Result: PickRejected, Score: g.scores[token], Reason: reason}
	}

	var picked [card.SetSize]card.Card
	for i, id := range ids {
		idx := g.fieldIndex(id)
		if idx < 0 {
			return PickOutcome{Result: PickRejected, Score: g.scores[token], Reason: ErrCardNotOnField}
		}
		picked[i] = g.field[idx]
	}

	g.ensurePlayer(token)

	if !card.IsValidSet(picked[0], picked[1], picked[2]) {
		g.scores[token]--
		g.publish()
		return PickOutcome{Result: PickNotSet, Score: g.scores[token]}
	}

	g.field = slices.DeleteFunc(g.field, func(c card.Card) bool {
		return c.ID == picked[0].ID || c.ID == picked[1].ID || c.ID == picked[2].ID
	})
	g.claimed++
	g.scores[token]++

	if missing := g.rules.FieldSize - len(g.field); missing > 0 {
		g.draw(missing)
	}

	// Only deck exhaustion and a short field end the game; remaining
	// sets on the field are not searched for.
	if len(g.deck) == 0 && len(g.field) < card.SetSize {
		g.status = StatusEnded
	}

	g.publish()
	return PickOutcome{Result: PickSet, Score: g.scores[token]}
}

// AddCards deals up to DrawSize extra cards regardless of the field size
// and returns how many were dealt
func (g *Game) AddCards() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.draw(g.rules.DrawSize)
	if n > 0 {
		g.publish()
	}
	return n
}

// Snapshot returns the last published state
func (g *Game) Snapshot() *Snapshot {
	return g.snap.Load()
}

// Field returns a copy of the cards currently in play
func (g *Game) Field() []card.Card {
	return slices.Clone(g.Snapshot().Field)
}

// Score returns the player's score, 0 if the player never joined
func (g *Game) Score(token string) int {
	return g.Snapshot().Score(token)
}

// Status returns whether the game is ongoing or ended
func (g *Game) Status() Status {
	return g.Snapshot().Status
}

// IsEnded reports whether the game reached its terminal state
func (g *Game) IsEnded() bool {
	return g.Status() == StatusEnded
}

// checkPick runs the checks that do not depend on the field contents.
func (g *Game) checkPick(ids []int) error {
	if g.status == StatusEnded {
		return ErrGameEnded
	}
	if len(ids) != card.SetSize {
		return ErrWrongCardCount
	}
	// A repeated id is refused outright rather than scored as a wrong triple.
	if ids[0] == ids[1] || ids[0] == ids[2] || ids[1] == ids[2] {
		return ErrDuplicateCard
	}
	return nil
}

func (g *Game) fieldIndex(id int) int {
	return slices.IndexFunc(g.field, func(c card.Card) bool {
		return c.ID == id
	})
}

// draw moves up to n cards from the top of the deck to the field.
// Callers must hold mu.
func (g *Game) draw(n int) int {
	n = min(n, len(g.deck))
	for range n {
		top := g.deck[len(g.deck)-1]
		g.deck = g.deck[:len(g.deck)-1]
		g.field = append(g.field, top)
	}
	return n
}

// ensurePlayer registers token with a zero score and reports whether it was new.
// Callers must hold mu.
func (g *Game) ensurePlayer(token string) bool {
	if _, ok := g.scores[token]; ok {
		return false
	}
	g.scores[token] = 0
	g.players = append(g.players, token)
	return true
}

// publish stores a copy of the current state for lock-free readers.
// Callers must hold mu.
func (g *Game) publish() {
	g.version++

	scores := make(map[string]int, len(g.scores))
	for token, score := range g.scores {
		scores[token] = score
	}

	g.snap.Store(&Snapshot{
		Field:       slices.Clone(g.field),
		Scores:      scores,
		Players:     slices.Clone(g.players),
		Status:      g.status,
		DeckSize:    len(g.deck),
		SetsClaimed: g.claimed,
		Version:     g.version,
	})
}
