package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		rank Rank
		suit Suit
	}{
		{"AS", Ace, Spades},
		{"TD", Ten, Diamonds},
		{"2C", Two, Clubs},
		{"9H", Nine, Hearts},
		{"KS", King, Spades},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, err := ParseCard(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.rank, c.Rank)
			assert.Equal(t, tt.suit, c.Suit)
			assert.Equal(t, tt.code, c.String())
		})
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "A", "ASS", "1S", "AX", "as", "Z2"} {
		_, err := ParseCard(code)
		assert.Error(t, err, "code %q should not parse", code)
	}
}

func TestCardRoundTripAllFiftyTwo(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			code := NewCard(rank, suit).String()
			require.Len(t, code, 2)
			require.False(t, seen[code], "duplicate code %s", code)
			seen[code] = true

			parsed, err := ParseCard(code)
			require.NoError(t, err)
			assert.Equal(t, NewCard(rank, suit), parsed)
		}
	}
	assert.Len(t, seen, 52)
}
