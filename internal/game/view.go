package game

import (
	"github.com/lox/holdemtable/poker"
)

// PlayerView is the public projection of one seat. Hole cards are
// never included; a viewer's own cards travel in View.YourCards.
type PlayerView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Chips        int    `json:"chips"`
	IsAdmin      bool   `json:"isAdmin"`
	InHand       bool   `json:"inHand"`
	Folded       bool   `json:"folded"`
	AllIn        bool   `json:"allIn"`
	BetThisRound int    `json:"betThisRound"`
	IsTurn       bool   `json:"isTurn"`
}

// View is the per-viewer state projection pushed after every
// state-mutating event. Deck and burn pile travel as counts only.
type View struct {
	Joined           bool             `json:"joined"`
	YouID            string           `json:"youId"`
	GameStarted      bool             `json:"gameStarted"`
	HandInProgress   bool             `json:"handInProgress"`
	HandNumber       int              `json:"handNumber"`
	Phase            Phase            `json:"phase"`
	StartingStack    int              `json:"startingStack"`
	SmallBlind       int              `json:"smallBlind"`
	BigBlind         int              `json:"bigBlind"`
	Pot              int              `json:"pot"`
	CurrentBet       int              `json:"currentBet"`
	DealerID         string           `json:"dealerId"`
	SmallBlindID     string           `json:"smallBlindId"`
	BigBlindID       string           `json:"bigBlindId"`
	CurrentTurnID    string           `json:"currentTurnId"`
	CommunityCards   []poker.Card     `json:"communityCards"`
	YourCards        []poker.Card     `json:"yourCards"`
	DeckRemaining    int              `json:"deckRemaining"`
	BurnCount        int              `json:"burnCount"`
	HandInsight      *HandInsight     `json:"handInsight"`
	AvailableActions AvailableActions `json:"availableActions"`
	CanAct           bool             `json:"canAct"`
	Players          []PlayerView     `json:"players"`
	Logs             []LogEntry       `json:"logs"`
	LastShowdown     *Showdown        `json:"lastShowdown"`
}

// ViewFor builds the projection for one viewer
func (t *Table) ViewFor(viewerID string) *View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewForLocked(viewerID)
}

func (t *Table) viewForLocked(viewerID string) *View {
	viewer := t.playerByID(viewerID)

	v := &View{
		Joined:         viewer != nil,
		YouID:          viewerID,
		GameStarted:    t.gameStarted,
		HandInProgress: t.handInProgress,
		HandNumber:     t.handNumber,
		Phase:          t.phase,
		StartingStack:  t.cfg.StartingStack,
		SmallBlind:     t.cfg.SmallBlind,
		BigBlind:       t.cfg.BigBlind,
		Pot:            t.pot,
		DealerID:       t.dealerID,
		SmallBlindID:   t.smallBlindID,
		BigBlindID:     t.bigBlindID,
		CurrentBet:     t.currentBet,
		CurrentTurnID:  t.currentTurnID,
		CommunityCards: append([]poker.Card{}, t.community...),
		YourCards:      []poker.Card{},
		Logs:           append([]LogEntry{}, t.logs...),
		LastShowdown:   t.lastShowdown,
	}

	if t.deck != nil && t.handInProgress {
		v.DeckRemaining = t.deck.Remaining()
		v.BurnCount = t.deck.Burned()
	}

	for _, p := range t.players {
		if p.Disconnected {
			continue
		}
		v.Players = append(v.Players, PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			Chips:        p.Chips,
			IsAdmin:      p.IsAdmin,
			InHand:       p.InHand,
			Folded:       p.Folded,
			AllIn:        p.AllIn,
			BetThisRound: p.BetThisRound,
			IsTurn:       t.currentTurnID == p.ID && t.handInProgress,
		})
	}

	if viewer != nil && viewer.InHand {
		v.YourCards = append([]poker.Card{}, viewer.HoleCards...)
	}

	if viewer != nil && t.handInProgress {
		v.HandInsight = t.handInsightLocked(viewer)
		v.CanAct = t.currentTurnID == viewer.ID && viewer.Actionable()
		if v.CanAct {
			v.AvailableActions = t.availableActionsLocked(viewer)
		}
	}

	return v
}
