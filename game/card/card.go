package card

import "fmt"

const (
	// NumValues is the number of values each attribute can take.
	NumValues = 3

	// DeckSize is the number of distinct cards in the catalog.
	DeckSize = NumValues * NumValues * NumValues * NumValues

	// SetSize is the number of cards that form a set.
	SetSize = 3
)

// Card represents a single immutable Set card
type Card struct {
	ID    int `json:"id"`
	Count int `json:"count"`
	Shape int `json:"shape"`
	Fill  int `json:"fill"`
	Color int `json:"color"`
}

// String renders the card as id:count/shape/fill/color
func (c Card) String() string {
	return fmt.Sprintf("%d:%d/%d/%d/%d", c.ID, c.Count, c.Shape, c.Fill, c.Color)
}

func (c Card) attributes() [4]int {
	return [4]int{c.Count, c.Shape, c.Fill, c.Color}
}

var catalog = buildCatalog()

func buildCatalog() [DeckSize]Card {
	var cards [DeckSize]Card
	id := 0
	for color := 1; color <= NumValues; color++ {
		for shape := 1; shape <= NumValues; shape++ {
			for fill := 1; fill <= NumValues; fill++ {
				for count := 1; count <= NumValues; count++ {
					cards[id] = Card{ID: id, Count: count, Shape: shape, Fill: fill, Color: color}
					id++
				}
			}
		}
	}
	return cards
}

// Generate returns all 81 cards in canonical order
func Generate() []Card {
	cards := make([]Card, DeckSize)
	copy(cards, catalog[:])
	return cards
}

// ByID returns the catalog card with the given ID
func ByID(id int) (Card, bool) {
	if id < 0 || id >= DeckSize {
		return Card{}, false
	}
	return catalog[id], true
}

// idOf computes the canonical ID for an attribute combination.
func idOf(count, shape, fill, color int) int {
	return (color-1)*27 + (shape-1)*9 + (fill-1)*3 + (count - 1)
}

// IsValidSet reports whether a, b and c form a set: every attribute must be
// either identical on all three cards or pairwise distinct.
func IsValidSet(a, b, c Card) bool {
	av, bv, cv := a.attributes(), b.attributes(), c.attributes()
	for i := range av {
		if !attributeMatches(av[i], bv[i], cv[i]) {
			return false
		}
	}
	return true
}

func attributeMatches(x, y, z int) bool {
	if x == y && y == z {
		return true
	}
	return x != y && x != z && y != z
}

// Third returns the unique card that completes a set with a and b.
// When a and b are the same card the result is that card again.
func Third(a, b Card) Card {
	av, bv := a.attributes(), b.attributes()
	var v [4]int
	for i := range av {
		if av[i] == bv[i] {
			v[i] = av[i]
		} else {
			// values are 1..3, so the missing one is 6 minus the other two
			v[i] = 6 - av[i] - bv[i]
		}
	}
	return catalog[idOf(v[0], v[1], v[2], v[3])]
}

// FindSet returns the first set found among cards, scanning pairs in order.
func FindSet(cards []Card) ([SetSize]Card, bool) {
	present := make(map[int]int, len(cards))
	for i, c := range cards {
		present[c.ID] = i
	}

	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].ID == cards[j].ID {
				continue
			}
			third := Third(cards[i], cards[j])
			if k, ok := present[third.ID]; ok && k > j {
				return [SetSize]Card{cards[i], cards[j], cards[k]}, true
			}
		}
	}
	return [SetSize]Card{}, false
}

// CountSets returns the number of distinct sets among cards.
func CountSets(cards []Card) int {
	present := make(map[int]int, len(cards))
	for i, c := range cards {
		present[c.ID] = i
	}

	n := 0
	for i := 0; i < len(cards); i++ {
		for j := i + 1; j < len(cards); j++ {
			if cards[i].ID == cards[j].ID {
				continue
			}
			if k, ok := present[Third(cards[i], cards[j]).ID]; ok && k > j {
				n++
			}
		}
	}
	return n
}
