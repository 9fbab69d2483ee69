package game

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/poker"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// stackedFactory rigs every hand's deck to deal the given cards first
func stackedFactory(t *testing.T, codes ...string) func() (*poker.Deck, error) {
	t.Helper()
	cards, err := poker.ParseCards(codes...)
	require.NoError(t, err)
	return func() (*poker.Deck, error) { return poker.NewStacked(cards...) }
}

// newTestTable builds a table with n seated players p0..p(n-1)
func newTestTable(t *testing.T, numPlayers int, opts ...Option) *Table {
	t.Helper()
	tbl := NewTable(DefaultConfig(), testLogger(), opts...)
	for i := 0; i < numPlayers; i++ {
		require.NoError(t, tbl.Join(fmt.Sprintf("p%d", i), fmt.Sprintf("Player%d", i)))
	}
	return tbl
}

// totalChips sums every stack plus the pot, which must be conserved
// across any sequence of events.
func totalChips(tbl *Table) int {
	total := tbl.pot
	for _, p := range tbl.players {
		total += p.Chips
	}
	return total
}

// player fetches a seat by id for assertions
func player(t *testing.T, tbl *Table, id string) *Player {
	t.Helper()
	p := tbl.playerByID(id)
	require.NotNil(t, p, "no player %s", id)
	return p
}
