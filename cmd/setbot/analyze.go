package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/wricardo/set-game/game/card"
	"github.com/wricardo/set-game/game/engine"
)

// Stats aggregates simulated games
type Stats struct {
	Games         int
	Ended         int
	Stuck         int
	Sets          int
	Draws         int
	NoSetFields   int
	MaxField      int
	CardsLeftSum  int
	SetsAtOpening int
}

// Simulate plays games with a single greedy player on the engine directly.
// A game is stuck when no set is on the field and the deck is empty.
func Simulate(games int, seed uint64, rules engine.Rules) (Stats, error) {
	stats := Stats{Games: games}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	for i := 0; i < games; i++ {
		g, err := engine.NewGame(rules, engine.WithRand(rng))
		if err != nil {
			return stats, err
		}
		g.Join("sim")
		stats.SetsAtOpening += card.CountSets(g.Field())

		for !g.IsEnded() {
			field := g.Field()
			stats.MaxField = max(stats.MaxField, len(field))

			set, ok := card.FindSet(field)
			if !ok {
				stats.NoSetFields++
				if g.AddCards() == 0 {
					stats.Stuck++
					stats.CardsLeftSum += len(field)
					break
				}
				stats.Draws++
				continue
			}

			outcome := g.Pick("sim", []int{set[0].ID, set[1].ID, set[2].ID})
			if !outcome.IsSet() {
				return stats, fmt.Errorf("engine refused a valid set: %v", outcome.Reason)
			}
			stats.Sets++
		}
		if g.IsEnded() {
			stats.Ended++
		}
	}
	return stats, nil
}

// Print writes a human-readable report of s
func (s Stats) Print(w io.Writer) {
	if s.Games == 0 {
		fmt.Fprintln(w, "no games simulated")
		return
	}
	games := float64(s.Games)
	fmt.Fprintf(w, "Games simulated:        %d\n", s.Games)
	fmt.Fprintf(w, "Sets in full deck:      %d\n", card.CountSets(card.Generate()))
	fmt.Fprintf(w, "Avg sets at opening:    %.2f\n", float64(s.SetsAtOpening)/games)
	fmt.Fprintf(w, "Avg sets per game:      %.2f\n", float64(s.Sets)/games)
	fmt.Fprintf(w, "Avg extra draws:        %.2f\n", float64(s.Draws)/games)
	fmt.Fprintf(w, "Largest field seen:     %d\n", s.MaxField)
	fmt.Fprintf(w, "Ended by rule:          %d (%.1f%%)\n", s.Ended, 100*float64(s.Ended)/games)
	fmt.Fprintf(w, "Stuck without a set:    %d (%.1f%%)\n", s.Stuck, 100*float64(s.Stuck)/games)
	if s.Stuck > 0 {
		fmt.Fprintf(w, "Avg cards left if stuck: %.2f\n", float64(s.CardsLeftSum)/float64(s.Stuck))
	}
}
