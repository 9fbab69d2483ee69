package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemtable/poker"
)

func cards(t *testing.T, codes ...string) []poker.Card {
	t.Helper()
	out, err := poker.ParseCards(codes...)
	require.NoError(t, err)
	return out
}

func TestPreflopInsightBigPairs(t *testing.T) {
	t.Parallel()

	aces := preflopInsight(poker.MustParseCard("AS"), poker.MustParseCard("AD"))
	require.NotNil(t, aces)
	assert.Equal(t, "Pocket Aces", aces.CurrentHand)
	assert.GreaterOrEqual(t, aces.StrengthScore, 90)
	assert.Equal(t, "Monster", aces.StrengthLabel)

	deuces := preflopInsight(poker.MustParseCard("2S"), poker.MustParseCard("2D"))
	assert.Less(t, deuces.StrengthScore, aces.StrengthScore)
}

func TestPreflopInsightTrashIsWeak(t *testing.T) {
	t.Parallel()

	insight := preflopInsight(poker.MustParseCard("7H"), poker.MustParseCard("2C"))
	require.NotNil(t, insight)
	assert.Equal(t, "72 offsuit", insight.CurrentHand)
	assert.Equal(t, "Weak", insight.StrengthLabel)
}

func TestPreflopInsightSuitedBeatsOffsuit(t *testing.T) {
	t.Parallel()

	suited := preflopInsight(poker.MustParseCard("AS"), poker.MustParseCard("KS"))
	offsuit := preflopInsight(poker.MustParseCard("AS"), poker.MustParseCard("KD"))
	assert.Greater(t, suited.StrengthScore, offsuit.StrengthScore)
	assert.Equal(t, "AK suited", suited.CurrentHand)
}

func TestPreflopInsightScoreBounds(t *testing.T) {
	t.Parallel()

	for _, a := range []string{"2C", "7H", "TD", "AS"} {
		for _, b := range []string{"3D", "8S", "JC", "KH"} {
			insight := preflopInsight(poker.MustParseCard(a), poker.MustParseCard(b))
			assert.GreaterOrEqual(t, insight.StrengthScore, 1)
			assert.LessOrEqual(t, insight.StrengthScore, 100)
		}
	}
}

func TestPostflopInsightScoreMonotonicInCategory(t *testing.T) {
	t.Parallel()

	// Hole-plus-board witnesses, one per category, weakest first:
	// high card, pair, two pair, trips, straight, flush, full house,
	// quads, straight flush.
	witnesses := [][2][]string{
		{{"AS", "KD"}, {"9H", "5C", "2S"}},
		{{"QS", "QD"}, {"9H", "5C", "2S"}},
		{{"QS", "QD"}, {"9H", "9C", "2S"}},
		{{"QS", "QD"}, {"QH", "5C", "2S"}},
		{{"8S", "7D"}, {"6H", "5C", "4S"}},
		{{"AH", "KH"}, {"9H", "5H", "2H"}},
		{{"QS", "QD"}, {"QH", "2C", "2S"}},
		{{"QS", "QD"}, {"QH", "QC", "2S"}},
		{{"9C", "8C"}, {"7C", "6C", "5C"}},
	}

	prev := 0
	for _, w := range witnesses {
		insight := postflopInsight(cards(t, w[0]...), cards(t, w[1]...))
		require.NotNil(t, insight)
		assert.Greater(t, insight.StrengthScore, prev, "%v should beat the previous witness", w)
		prev = insight.StrengthScore
	}
}

func TestPostflopInsightFlushDraw(t *testing.T) {
	t.Parallel()

	insight := postflopInsight(cards(t, "AS", "KS"), cards(t, "2S", "7S", "9H"))
	require.NotNil(t, insight)
	assert.Contains(t, insight.Draws, "Flush draw")
}

func TestPostflopInsightOpenEndedStraightDraw(t *testing.T) {
	t.Parallel()

	insight := postflopInsight(cards(t, "8H", "9C"), cards(t, "7D", "6S", "2C"))
	require.NotNil(t, insight)
	assert.Contains(t, insight.Draws, "Open-ended straight draw")
}

func TestPostflopInsightGutshot(t *testing.T) {
	t.Parallel()

	insight := postflopInsight(cards(t, "8H", "9C"), cards(t, "6D", "5S", "AC"))
	require.NotNil(t, insight)
	assert.Contains(t, insight.Draws, "Gutshot straight draw")
}

func TestNoDrawsReportedOnTheRiver(t *testing.T) {
	t.Parallel()

	insight := postflopInsight(cards(t, "AS", "KS"), cards(t, "2S", "7S", "9H", "3D", "4C"))
	require.NotNil(t, insight)
	assert.Empty(t, insight.Draws, "nothing left to draw at the river")
}

func TestMadeFlushReportsNoFlushDraw(t *testing.T) {
	t.Parallel()

	insight := postflopInsight(cards(t, "AS", "KS"), cards(t, "2S", "7S", "9S"))
	require.NotNil(t, insight)
	assert.NotContains(t, insight.Draws, "Flush draw")
	assert.Equal(t, "Flush (Ace high)", insight.CurrentHand)
}

func TestInsightNilWhenNotInHand(t *testing.T) {
	tbl := newTestTable(t, 2)
	viewer := player(t, tbl, "p0")

	assert.Nil(t, tbl.handInsightLocked(viewer), "no insight outside a live hand")
}

func TestStrengthLabelBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		label string
	}{
		{100, "Monster"},
		{90, "Monster"},
		{89, "Very Strong"},
		{78, "Very Strong"},
		{77, "Strong"},
		{64, "Strong"},
		{63, "Playable"},
		{50, "Playable"},
		{49, "Marginal"},
		{36, "Marginal"},
		{35, "Weak"},
		{1, "Weak"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, strengthLabel(tt.score), "score %d", tt.score)
	}
}
