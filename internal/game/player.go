package game

import (
	"fmt"
	"strings"

	"github.com/lox/holdemtable/poker"
)

// Player represents a seated player. Players are created on join and
// owned exclusively by the Table; clients only ever hold the id.
type Player struct {
	ID           string
	Name         string
	Chips        int
	IsAdmin      bool
	Disconnected bool

	// Per-hand state, reset at hand start and hand finish
	InHand            bool
	Folded            bool
	AllIn             bool
	Acted             bool
	HoleCards         []poker.Card
	BetThisRound      int
	TotalContribution int
}

// Actionable reports whether the player can still act this street:
// in the hand, not folded, not all-in.
func (p *Player) Actionable() bool {
	return p.InHand && !p.Folded && !p.AllIn
}

// resetHandState clears all per-hand fields
func (p *Player) resetHandState() {
	p.InHand = false
	p.Folded = false
	p.AllIn = false
	p.Acted = false
	p.HoleCards = nil
	p.BetThisRound = 0
	p.TotalContribution = 0
}

// pay moves up to amount chips from the stack into the current bet,
// returning what was actually paid. Paying the last chip marks the
// player all-in.
func (p *Player) pay(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.BetThisRound += amount
	p.TotalContribution += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}

const (
	minNameLength = 2
	maxNameLength = 20
)

// SanitizeName trims, collapses internal whitespace and validates a
// display name.
func SanitizeName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if len(name) < minNameLength || len(name) > maxNameLength {
		return "", fmt.Errorf("name must be %d-%d characters", minNameLength, maxNameLength)
	}
	return name, nil
}
