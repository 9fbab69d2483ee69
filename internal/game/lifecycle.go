package game

import (
	"github.com/lox/holdemtable/poker"
)

// startHandLocked begins a new hand: purge absent seats, check
// eligibility, rebuild the deck, move the button, deal, post blinds
// and hand the turn to the first actionable player.
func (t *Table) startHandLocked() error {
	if t.nextHandTimer != nil {
		t.nextHandTimer.Stop()
		t.nextHandTimer = nil
	}

	t.removeDisconnectedLocked()
	t.reassignAdminLocked()

	var eligiblePlayers []*Player
	for _, p := range t.players {
		if eligible(p) {
			eligiblePlayers = append(eligiblePlayers, p)
		}
	}
	if len(eligiblePlayers) < 2 {
		if t.gameStarted && len(eligiblePlayers) == 1 {
			t.appendLog("%s wins the game with %d chips", eligiblePlayers[0].Name, eligiblePlayers[0].Chips)
			t.logger.Info("Game over", "winner", eligiblePlayers[0].Name, "chips", eligiblePlayers[0].Chips)
		}
		t.gameStarted = false
		t.handInProgress = false
		t.phase = PhaseLobby
		return nil
	}

	for _, p := range t.players {
		p.resetHandState()
		p.InHand = eligible(p)
	}

	deck, err := t.newDeck()
	if err != nil {
		t.abortHandLocked(err)
		return nil
	}
	t.deck = deck
	t.community = nil
	t.pot = 0
	t.currentBet = 0
	t.lastRaiseSize = t.cfg.BigBlind
	t.handNumber++
	t.handInProgress = true
	t.phase = PhasePreflop

	// Button moves to the next eligible seat; first hand starts the
	// scan from seat zero.
	dealer := t.nextWhere(t.seatIndex(t.dealerID), eligible)
	if dealer == nil {
		t.abortHandLocked(nil)
		return nil
	}
	t.dealerID = dealer.ID

	var sb, bb *Player
	if len(eligiblePlayers) == 2 {
		// Heads-up: the dealer posts the small blind
		sb = dealer
		bb = t.nextWhere(t.seatIndex(dealer.ID), eligible)
	} else {
		sb = t.nextWhere(t.seatIndex(dealer.ID), eligible)
		if sb != nil {
			bb = t.nextWhere(t.seatIndex(sb.ID), eligible)
		}
	}
	if sb == nil || bb == nil || sb == bb {
		t.abortHandLocked(nil)
		return nil
	}
	t.smallBlindID = sb.ID
	t.bigBlindID = bb.ID

	t.appendLog("Hand #%d begins, %s has the button", t.handNumber, dealer.Name)

	// Two rounds of one card each, starting left of the button
	for round := 0; round < 2; round++ {
		for i := 1; i <= len(t.players); i++ {
			p := t.players[(t.seatIndex(dealer.ID)+i)%len(t.players)]
			if !p.InHand {
				continue
			}
			card, err := t.deck.Draw("hole card")
			if err != nil {
				t.abortHandLocked(err)
				return nil
			}
			p.HoleCards = append(p.HoleCards, card)
		}
	}

	// Forced blinds, capped by stack. A short blind goes all in but
	// never lowers the bet to match: currentBet stays at the big
	// blind level.
	sbPaid := sb.pay(t.cfg.SmallBlind)
	bbPaid := bb.pay(t.cfg.BigBlind)
	t.pot += sbPaid + bbPaid
	t.currentBet = max(t.cfg.BigBlind, max(sbPaid, bbPaid))
	t.appendLog("%s posts small blind %d, %s posts big blind %d", sb.Name, sbPaid, bb.Name, bbPaid)

	for _, p := range t.players {
		if p.InHand {
			p.Acted = !p.Actionable()
		}
	}

	first := t.nextWhere(t.seatIndex(bb.ID), (*Player).Actionable)
	if first == nil {
		t.resolveAfterActionLocked(bb, false)
		return nil
	}
	t.currentTurnID = first.ID
	return nil
}

// advanceStreetLocked moves the hand to the next street, burning a
// card and dealing the community cards for it.
func (t *Table) advanceStreetLocked() {
	for _, p := range t.players {
		p.BetThisRound = 0
		if p.InHand {
			p.Acted = !p.Actionable()
		}
	}
	t.currentBet = 0
	t.lastRaiseSize = t.cfg.BigBlind
	t.currentTurnID = ""

	switch t.phase {
	case PhasePreflop:
		if !t.dealCommunityLocked(3) {
			return
		}
		t.phase = PhaseFlop
		t.appendLog("Flop: %v", cardList(t.community))
	case PhaseFlop:
		if !t.dealCommunityLocked(1) {
			return
		}
		t.phase = PhaseTurn
		t.appendLog("Turn: %v", cardList(t.community))
	case PhaseTurn:
		if !t.dealCommunityLocked(1) {
			return
		}
		t.phase = PhaseRiver
		t.appendLog("River: %v", cardList(t.community))
	case PhaseRiver:
		t.showdownLocked()
		return
	default:
		return
	}

	first := t.nextWhere(t.seatIndex(t.dealerID), (*Player).Actionable)
	if first == nil {
		t.fastForwardLocked()
		return
	}
	t.currentTurnID = first.ID
}

// dealCommunityLocked burns one card then deals n to the board,
// aborting the hand on a deck fault.
func (t *Table) dealCommunityLocked(n int) bool {
	if err := t.deck.Burn("community"); err != nil {
		t.abortHandLocked(err)
		return false
	}
	for i := 0; i < n; i++ {
		card, err := t.deck.Draw("community")
		if err != nil {
			t.abortHandLocked(err)
			return false
		}
		t.community = append(t.community, card)
	}
	return true
}

// fastForwardLocked reveals all remaining community cards and goes
// straight to showdown. Used when nobody can act but at least two
// contenders remain.
func (t *Table) fastForwardLocked() {
	t.currentTurnID = ""
	for t.phase != PhaseShowdown {
		switch t.phase {
		case PhasePreflop:
			if !t.dealCommunityLocked(3) {
				return
			}
			t.phase = PhaseFlop
			t.appendLog("Flop: %v", cardList(t.community))
		case PhaseFlop:
			if !t.dealCommunityLocked(1) {
				return
			}
			t.phase = PhaseTurn
			t.appendLog("Turn: %v", cardList(t.community))
		case PhaseTurn:
			if !t.dealCommunityLocked(1) {
				return
			}
			t.phase = PhaseRiver
			t.appendLog("River: %v", cardList(t.community))
		case PhaseRiver:
			t.showdownLocked()
			return
		default:
			return
		}
	}
}

// showdownLocked evaluates every contender's best seven-card hand,
// distributes the pot with side-pot layering and records the snapshot.
func (t *Table) showdownLocked() {
	t.phase = PhaseShowdown
	t.currentTurnID = ""

	ranks := make(map[string]poker.HandRank)
	var hands []ShowdownHand
	for _, p := range t.players {
		if !contender(p) {
			continue
		}
		cards := append(append([]poker.Card{}, p.HoleCards...), t.community...)
		rank, err := poker.Evaluate(cards)
		if err != nil {
			t.abortHandLocked(err)
			return
		}
		ranks[p.ID] = rank
		hands = append(hands, ShowdownHand{
			PlayerID: p.ID,
			Name:     p.Name,
			Cards:    append([]poker.Card{}, p.HoleCards...),
			Hand:     rank.String(),
		})
		t.appendLog("%s shows %v: %s", p.Name, cardList(p.HoleCards), rank)
	}

	payouts := t.distributePotLocked(ranks)
	for _, row := range payouts {
		t.appendLog("%s wins %d", row.Name, row.Amount)
	}

	t.lastShowdown = &Showdown{
		Board:   append([]poker.Card{}, t.community...),
		Hands:   hands,
		Payouts: payouts,
	}

	t.finishHandLocked()
}

// resolveByFoldLocked pays the whole pot to the single remaining
// contender without a showdown.
func (t *Table) resolveByFoldLocked() {
	t.currentTurnID = ""

	var winner *Player
	for _, p := range t.players {
		if contender(p) {
			winner = p
			break
		}
	}
	if winner == nil {
		t.abortHandLocked(nil)
		return
	}

	winner.Chips += t.pot
	t.appendLog("%s wins %d, everyone else folded", winner.Name, t.pot)
	t.logger.Info("Hand resolved by fold", "winner", winner.Name, "pot", t.pot)
	t.pot = 0

	t.finishHandLocked()
}

// finishHandLocked clears per-hand state and either schedules the
// next hand or returns the table to the lobby.
func (t *Table) finishHandLocked() {
	t.handInProgress = false
	t.currentTurnID = ""
	for _, p := range t.players {
		p.InHand = false
		p.Folded = false
		p.AllIn = false
		p.Acted = false
		p.HoleCards = nil
		p.BetThisRound = 0
		p.TotalContribution = 0
	}

	t.removeDisconnectedLocked()
	t.reassignAdminLocked()

	remaining := 0
	var last *Player
	for _, p := range t.players {
		if eligible(p) {
			remaining++
			last = p
		}
	}

	if remaining >= 2 {
		t.scheduleNextHandLocked()
		return
	}

	if remaining == 1 {
		t.appendLog("%s wins the game with %d chips", last.Name, last.Chips)
		t.logger.Info("Game over", "winner", last.Name, "chips", last.Chips)
	}
	t.gameStarted = false
	t.phase = PhaseLobby
}

// scheduleNextHandLocked arms the inter-hand timer, cancelling any
// pending one first.
func (t *Table) scheduleNextHandLocked() {
	if t.nextHandTimer != nil {
		t.nextHandTimer.Stop()
	}
	t.nextHandTimer = t.clock.AfterFunc(t.cfg.NextHandDelay, t.startNextHand)
}

// startNextHand is the timer callback. It re-enters through the table
// lock like any other event.
func (t *Table) startNextHand() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextHandTimer = nil
	if !t.gameStarted || t.handInProgress {
		return
	}
	if err := t.startHandLocked(); err != nil {
		t.logger.Error("Failed to start next hand", "error", err)
		return
	}
	t.broadcastLocked()
}

// abortHandLocked handles invariant violations (deck faults,
// evaluator misuse). These are programmer errors, not client faults:
// contributions are refunded and the table resets to the lobby with a
// diagnostic.
func (t *Table) abortHandLocked(err error) {
	if err != nil {
		t.logger.Error("Hand aborted on invariant violation", "error", err)
	} else {
		t.logger.Error("Hand aborted: inconsistent table state")
	}
	t.appendLog("Hand #%d aborted on an internal error", t.handNumber)

	for _, p := range t.players {
		p.Chips += p.TotalContribution
		p.resetHandState()
	}
	t.pot = 0
	t.community = nil
	t.currentBet = 0
	t.currentTurnID = ""
	t.handInProgress = false
	t.gameStarted = false
	t.phase = PhaseLobby
}

func cardList(cards []poker.Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
