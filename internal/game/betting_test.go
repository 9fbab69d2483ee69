package game

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllInUnderRaiseDoesNotReopenAction(t *testing.T) {
	// p0 opens to 100, p1 makes a full raise to 250, p2 shoves 300.
	// The extra 50 is below the 150 raise increment, so p0 may only
	// call or fold.
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	player(t, tbl, "p2").Chips = 300
	require.NoError(t, tbl.StartGame("p0"))

	require.NoError(t, tbl.Action("p0", "raise", 100))
	assert.Equal(t, 80, tbl.lastRaiseSize)

	require.NoError(t, tbl.Action("p1", "raise", 250))
	assert.Equal(t, 150, tbl.lastRaiseSize)

	require.NoError(t, tbl.Action("p2", "raise", 300))
	assert.Equal(t, 150, tbl.lastRaiseSize, "an all-in under-raise keeps the increment")
	assert.True(t, player(t, tbl, "p2").AllIn)
	assert.Equal(t, 300, tbl.currentBet)

	require.Equal(t, "p0", tbl.currentTurnID)
	actions := tbl.availableActionsLocked(player(t, tbl, "p0"))
	assert.True(t, actions.CanFold)
	assert.True(t, actions.CanCall)
	assert.Equal(t, 200, actions.CallAmount)
	assert.False(t, actions.CanRaise, "action was not reopened")

	err := tbl.Action("p0", "raise", 500)
	require.EqualError(t, err, "action not reopened")

	require.NoError(t, tbl.Action("p0", "call", 0))
	require.NoError(t, tbl.Action("p1", "call", 0))
	assert.Equal(t, PhaseFlop, tbl.phase)
	assert.Equal(t, 900, tbl.pot)
}

func TestShortBigBlindDoesNotLowerCurrentBet(t *testing.T) {
	// The big blind can only post 15 of the 20. The bet to match
	// stays at the full big blind and the minimum raise is unchanged.
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	player(t, tbl, "p2").Chips = 15
	require.NoError(t, tbl.StartGame("p0"))

	bb := player(t, tbl, "p2")
	assert.True(t, bb.AllIn)
	assert.Equal(t, 15, bb.BetThisRound)
	assert.Equal(t, 20, tbl.currentBet)

	actions := tbl.availableActionsLocked(player(t, tbl, "p0"))
	assert.Equal(t, 20, actions.CallAmount)
	assert.Equal(t, 40, actions.MinRaiseTo)
}

func TestBigBlindGetsOption(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	require.NoError(t, tbl.Action("p0", "call", 0))
	require.NoError(t, tbl.Action("p1", "call", 0))

	require.Equal(t, PhasePreflop, tbl.phase, "the big blind still has the option")
	require.Equal(t, "p2", tbl.currentTurnID)

	actions := tbl.availableActionsLocked(player(t, tbl, "p2"))
	assert.True(t, actions.CanCheck)
	assert.True(t, actions.CanRaise, "the big blind may raise their own blind")
	assert.Equal(t, 40, actions.MinRaiseTo)

	require.NoError(t, tbl.Action("p2", "check", 0))
	assert.Equal(t, PhaseFlop, tbl.phase)
}

func TestCheckRejectedFacingABet(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	err := tbl.Action("p0", "check", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot check")
	assert.Equal(t, 1000, player(t, tbl, "p0").Chips, "rejected actions must not mutate state")
	assert.Equal(t, 30, tbl.pot)
}

func TestRaiseBelowMinimumRejectedUnlessAllIn(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	err := tbl.Action("p0", "raise", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum raise is to 40")

	err = tbl.Action("p0", "raise", 5000)
	require.EqualError(t, err, "insufficient chips")

	// All in below the minimum is always allowed as long as it
	// increases the bet.
	player(t, tbl, "p0").Chips = 30
	require.NoError(t, tbl.Action("p0", "raise", 30))
	assert.True(t, player(t, tbl, "p0").AllIn)
	assert.Equal(t, 30, tbl.currentBet)
	assert.Equal(t, 20, tbl.lastRaiseSize, "an under-raise keeps the previous increment")
}

func TestRaiseMustExceedCurrentBet(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	err := tbl.Action("p0", "raise", 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must exceed current bet")
}

func TestActionOutOfTurnRejected(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	err := tbl.Action("p1", "fold", 0)
	require.EqualError(t, err, "not your turn")
}

func TestActionWithoutHandRejected(t *testing.T) {
	tbl := newTestTable(t, 3)

	err := tbl.Action("p0", "fold", 0)
	require.EqualError(t, err, "no hand in progress")
}

func TestUnknownActionRejected(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	err := tbl.Action("p0", "timebank", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action")
}

func TestUnderCallIsAllIn(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	player(t, tbl, "p1").Chips = 50
	require.NoError(t, tbl.StartGame("p0"))

	require.NoError(t, tbl.Action("p0", "raise", 200))

	// The small blind has 40 behind against a bet of 200; calling
	// puts them all in for less without lowering the bet.
	require.NoError(t, tbl.Action("p1", "call", 0))
	p1 := player(t, tbl, "p1")
	assert.True(t, p1.AllIn)
	assert.Equal(t, 50, p1.BetThisRound)
	assert.Equal(t, 200, tbl.currentBet)
}

func TestPotTracksContributions(t *testing.T) {
	tbl := newTestTable(t, 3, WithClock(quartz.NewMock(t)))
	require.NoError(t, tbl.StartGame("p0"))

	require.NoError(t, tbl.Action("p0", "raise", 60))
	require.NoError(t, tbl.Action("p1", "call", 0))
	require.NoError(t, tbl.Action("p2", "call", 0))

	sum := 0
	for _, p := range tbl.Players() {
		sum += p.TotalContribution
	}
	assert.Equal(t, sum, tbl.pot)
	assert.Equal(t, 180, tbl.pot)
	assert.Equal(t, 3000, totalChips(tbl))
}
