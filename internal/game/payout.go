package game

import (
	"sort"

	"github.com/lox/holdemtable/poker"
)

// distributePotLocked pays out the pot from per-player contribution
// totals. Side pots are never materialized during betting; they are
// derived here by layering the distinct contribution levels. Folded
// players' chips still fund pots they can no longer win.
//
// ranks maps contender ids to their evaluated hands. Fold-outs do not
// come through here: resolveByFoldLocked pays the whole pot directly.
func (t *Table) distributePotLocked(ranks map[string]poker.HandRank) []PayoutRow {
	// Distinct positive contribution levels, ascending
	levelSet := make(map[int]struct{})
	for _, p := range t.players {
		if p.TotalContribution > 0 {
			levelSet[p.TotalContribution] = struct{}{}
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	winnings := make(map[string]int)

	prev := 0
	for _, level := range levels {
		layer := 0
		var eligibleWinners []*Player
		for _, p := range t.players {
			if p.TotalContribution >= level {
				layer += level - prev
				if _, live := ranks[p.ID]; live && contender(p) {
					eligibleWinners = append(eligibleWinners, p)
				}
			}
		}
		prev = level

		if len(eligibleWinners) == 0 {
			// Cannot happen under normal play: a contributor only
			// loses eligibility by folding, which requires a live
			// contender to fold to. The chips stay unaccounted.
			continue
		}

		best := ranks[eligibleWinners[0].ID]
		for _, p := range eligibleWinners[1:] {
			if poker.Compare(ranks[p.ID], best) > 0 {
				best = ranks[p.ID]
			}
		}
		var winners []*Player
		for _, p := range eligibleWinners {
			if poker.Compare(ranks[p.ID], best) == 0 {
				winners = append(winners, p)
			}
		}

		share := layer / len(winners)
		remainder := layer % len(winners)
		for _, p := range winners {
			winnings[p.ID] += share
		}

		// Odd chips go one at a time to the tied winners in seat
		// order after the dealer, wrapping the ring.
		if remainder > 0 {
			for _, p := range t.seatOrderAfterDealerLocked() {
				if remainder == 0 {
					break
				}
				for _, w := range winners {
					if w.ID == p.ID {
						winnings[p.ID]++
						remainder--
						break
					}
				}
			}
		}
	}

	rows := make([]PayoutRow, 0, len(winnings))
	for _, p := range t.players {
		amount, ok := winnings[p.ID]
		if !ok {
			continue
		}
		p.Chips += amount
		t.pot -= amount
		rows = append(rows, PayoutRow{PlayerID: p.ID, Name: p.Name, Amount: amount})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Amount > rows[j].Amount })
	return rows
}

// seatOrderAfterDealerLocked returns the seat ring starting at the
// first seat after the dealer.
func (t *Table) seatOrderAfterDealerLocked() []*Player {
	n := len(t.players)
	if n == 0 {
		return nil
	}
	start := t.seatIndex(t.dealerID)
	out := make([]*Player, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, t.players[(start+i)%n])
	}
	return out
}
