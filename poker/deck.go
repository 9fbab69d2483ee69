package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

var (
	// ErrDeckExhausted is returned when drawing from an empty deck.
	ErrDeckExhausted = errors.New("deck exhausted")

	// ErrDuplicateDraw is returned when a drawn card was already seen
	// this hand. This indicates corrupted deck state, not a client fault.
	ErrDuplicateDraw = errors.New("duplicate card drawn")

	// ErrBadDeck is returned when a freshly built deck fails validation.
	ErrBadDeck = errors.New("malformed deck")
)

// Deck represents a standard 52-card deck. The top of the deck is the
// last element. Every card leaving the deck is recorded in a seen-set;
// a second appearance of the same card fails the draw.
type Deck struct {
	cards []Card
	burns []Card
	seen  map[Card]struct{}
	rng   *rand.Rand
}

// NewDeck builds, verifies and shuffles a fresh deck using the
// provided RNG for deterministic shuffling in tests.
func NewDeck(rng *rand.Rand) (*Deck, error) {
	d := &Deck{
		cards: make([]Card, 0, 52),
		seen:  make(map[Card]struct{}, 52),
		rng:   rng,
	}

	for _, suit := range Suits {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}

	if err := d.verify(); err != nil {
		return nil, err
	}

	d.shuffle()
	return d, nil
}

// NewStacked builds an unshuffled deck that deals the given cards in
// order, with the rest of the 52 following in reverse canonical order. Used
// by tests to rig known situations.
func NewStacked(first ...Card) (*Deck, error) {
	d := &Deck{
		cards: make([]Card, 0, 52),
		seen:  make(map[Card]struct{}, 52),
	}

	chosen := make(map[Card]struct{}, len(first))
	for _, c := range first {
		chosen[c] = struct{}{}
	}

	var rest []Card
	for _, suit := range Suits {
		for _, rank := range Ranks {
			c := NewCard(rank, suit)
			if _, ok := chosen[c]; !ok {
				rest = append(rest, c)
			}
		}
	}

	// Top of deck is the last element, so the requested cards go at
	// the end in reverse.
	d.cards = append(d.cards, rest...)
	for i := len(first) - 1; i >= 0; i-- {
		d.cards = append(d.cards, first[i])
	}

	if err := d.verify(); err != nil {
		return nil, err
	}
	return d, nil
}

// verify checks the freshly built deck: 52 entries, all unique, all
// parseable under the card grammar.
func (d *Deck) verify() error {
	if len(d.cards) != 52 {
		return fmt.Errorf("%w: %d cards", ErrBadDeck, len(d.cards))
	}
	unique := make(map[Card]struct{}, 52)
	for _, c := range d.cards {
		if _, err := ParseCard(c.String()); err != nil {
			return fmt.Errorf("%w: %v", ErrBadDeck, err)
		}
		if _, dup := unique[c]; dup {
			return fmt.Errorf("%w: duplicate %s", ErrBadDeck, c)
		}
		unique[c] = struct{}{}
	}
	return nil
}

// shuffle performs a Fisher-Yates shuffle over the injected RNG
func (d *Deck) shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card. The reason is carried into
// the error for diagnostics only.
func (d *Deck) Draw(reason string) (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, fmt.Errorf("%w (%s)", ErrDeckExhausted, reason)
	}

	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]

	if _, dup := d.seen[card]; dup {
		return Card{}, fmt.Errorf("%w: %s (%s)", ErrDuplicateDraw, card, reason)
	}
	d.seen[card] = struct{}{}

	return card, nil
}

// Burn draws one card onto the burn pile
func (d *Deck) Burn(reason string) error {
	card, err := d.Draw(reason)
	if err != nil {
		return err
	}
	d.burns = append(d.burns, card)
	return nil
}

// Remaining returns the number of undrawn cards
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Burned returns the number of burned cards
func (d *Deck) Burned() int {
	return len(d.burns)
}

// Seen reports whether the card has already left the deck this hand
func (d *Deck) Seen(c Card) bool {
	_, ok := d.seen[c]
	return ok
}
