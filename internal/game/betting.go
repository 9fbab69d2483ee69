package game

import (
	"errors"
	"fmt"
)

// AvailableActions describes what the acting player may legally do,
// sent as part of their view projection.
type AvailableActions struct {
	CanFold    bool `json:"canFold"`
	CanCheck   bool `json:"canCheck"`
	CanCall    bool `json:"canCall"`
	CanRaise   bool `json:"canRaise"`
	CallAmount int  `json:"callAmount"`
	MinRaiseTo int  `json:"minRaiseTo"`
	MaxRaiseTo int  `json:"maxRaiseTo"`
}

// availableActionsLocked computes the legal action set for a player
// assumed to be actionable and on turn.
func (t *Table) availableActionsLocked(p *Player) AvailableActions {
	toCall := t.currentBet - p.BetThisRound
	if toCall < 0 {
		toCall = 0
	}
	maxTotal := p.BetThisRound + p.Chips

	minRaiseTo := t.currentBet + t.lastRaiseSize
	if t.currentBet == 0 {
		minRaiseTo = t.cfg.BigBlind
	}
	if minRaiseTo > maxTotal {
		// Short stack: the only raise left is the all-in
		minRaiseTo = maxTotal
	}

	return AvailableActions{
		CanFold:    true,
		CanCheck:   toCall == 0,
		CanCall:    toCall > 0 && p.Chips > 0,
		CanRaise:   t.raiseRightsOpen(p) && maxTotal > t.currentBet,
		CallAmount: min(toCall, p.Chips),
		MinRaiseTo: minRaiseTo,
		MaxRaiseTo: maxTotal,
	}
}

// raiseRightsOpen reports whether the player may raise. A player who
// has completed an action this street keeps Acted set; only a street
// change clears it. A player who has not acted may raise; a player
// who has acted may raise only when there is nothing to call, so once
// they face new money, from a full raise or an all-in under-raise,
// they may only call or fold.
func (t *Table) raiseRightsOpen(p *Player) bool {
	toCall := t.currentBet - p.BetThisRound
	return !p.Acted || toCall <= 0
}

// Action applies a betting action for the player on turn. Every
// legality check happens before any mutation; violations are reported
// back to the sender and leave the table untouched.
func (t *Table) Action(id, actionType string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.gameStarted || !t.handInProgress {
		return errors.New("no hand in progress")
	}
	player := t.playerByID(id)
	if player == nil {
		return errors.New("join the table first")
	}
	if t.currentTurnID != id {
		return errors.New("not your turn")
	}
	if !player.Actionable() {
		return errors.New("you cannot act")
	}

	toCall := t.currentBet - player.BetThisRound
	if toCall < 0 {
		toCall = 0
	}

	switch actionType {
	case "fold":
		player.Folded = true
		player.InHand = false
		player.Acted = true
		t.appendLog("%s folds", player.Name)

	case "check":
		if toCall > 0 {
			return fmt.Errorf("cannot check, %d to call", toCall)
		}
		player.Acted = true
		t.appendLog("%s checks", player.Name)

	case "call":
		if toCall == 0 {
			return errors.New("nothing to call")
		}
		if player.Chips == 0 {
			return errors.New("no chips left")
		}
		paid := player.pay(toCall)
		t.pot += paid
		player.Acted = true
		if player.AllIn {
			t.appendLog("%s calls %d and is all in", player.Name, paid)
		} else {
			t.appendLog("%s calls %d", player.Name, paid)
		}

	case "raise":
		maxTotal := player.BetThisRound + player.Chips
		minRaiseTo := t.currentBet + t.lastRaiseSize
		if t.currentBet == 0 {
			minRaiseTo = t.cfg.BigBlind
		}

		if !t.raiseRightsOpen(player) {
			return errors.New("action not reopened")
		}
		if amount <= t.currentBet {
			return fmt.Errorf("raise must exceed current bet of %d", t.currentBet)
		}
		if amount > maxTotal {
			return errors.New("insufficient chips")
		}
		if amount < minRaiseTo && amount != maxTotal {
			return fmt.Errorf("minimum raise is to %d", minRaiseTo)
		}

		increment := amount - t.currentBet
		if increment >= t.lastRaiseSize {
			// Full raise; the increment becomes the new minimum
			t.lastRaiseSize = increment
		}
		paid := player.pay(amount - player.BetThisRound)
		t.pot += paid
		t.currentBet = amount
		player.Acted = true
		if player.AllIn {
			t.appendLog("%s raises to %d, all in", player.Name, amount)
		} else {
			t.appendLog("%s raises to %d", player.Name, amount)
		}

	default:
		return fmt.Errorf("unknown action %q", actionType)
	}

	t.resolveAfterActionLocked(player, true)
	t.broadcastLocked()
	return nil
}

// forceFoldLocked folds a player regardless of turn order, used for
// disconnects.
func (t *Table) forceFoldLocked(p *Player) {
	wasTurn := t.currentTurnID == p.ID
	p.Folded = true
	p.InHand = false
	p.Acted = true
	t.appendLog("%s folds (disconnected)", p.Name)
	t.resolveAfterActionLocked(p, wasTurn)
}

// resolveAfterActionLocked drives the hand forward after any action:
// fold-out win, fast-forward when nobody can act, street advance when
// the round completes, otherwise the turn pointer moves.
func (t *Table) resolveAfterActionLocked(actor *Player, moveTurn bool) {
	contenders := 0
	actionable := 0
	for _, p := range t.players {
		if contender(p) {
			contenders++
		}
		if p.Actionable() {
			actionable++
		}
	}

	switch {
	case contenders <= 1:
		t.resolveByFoldLocked()
	case actionable == 0:
		t.fastForwardLocked()
	case t.roundCompleteLocked():
		t.advanceStreetLocked()
	case moveTurn:
		next := t.nextWhere(t.seatIndex(actor.ID), (*Player).Actionable)
		if next != nil {
			t.currentTurnID = next.ID
		}
	}
}

// roundCompleteLocked reports whether the betting round is finished:
// every still-actionable player has acted and matches the current
// bet.
func (t *Table) roundCompleteLocked() bool {
	for _, p := range t.players {
		if !p.Actionable() {
			continue
		}
		if !p.Acted || p.BetThisRound != t.currentBet {
			return false
		}
	}
	return true
}
