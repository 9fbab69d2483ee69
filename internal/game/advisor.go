package game

import (
	"github.com/lox/holdemtable/poker"
)

// HandInsight is the best-effort strength hint shown to each viewer
// in a live hand about their own cards. It is UX metadata: nothing
// here feeds back into the betting rules.
type HandInsight struct {
	CurrentHand    string   `json:"currentHand"`
	StrengthScore  int      `json:"strengthScore"`
	StrengthLabel  string   `json:"strengthLabel"`
	Draws          []string `json:"draws"`
	Recommendation string   `json:"recommendation"`
}

// handInsightLocked computes the insight for a viewer, or nil when
// they are not in a live hand.
func (t *Table) handInsightLocked(viewer *Player) *HandInsight {
	if !viewer.InHand || len(viewer.HoleCards) != 2 {
		return nil
	}

	if len(t.community) == 0 {
		return preflopInsight(viewer.HoleCards[0], viewer.HoleCards[1])
	}
	return postflopInsight(viewer.HoleCards, t.community)
}

// preflopInsight scores hole cards with a closed formula over the
// high rank, low rank, suitedness, gap and pairness.
func preflopInsight(a, b poker.Card) *HandInsight {
	high, low := int(a.Rank), int(b.Rank)
	if low > high {
		high, low = low, high
	}
	suited := a.Suit == b.Suit
	pair := a.Rank == b.Rank

	var score int
	if pair {
		score = 55 + (high-2)*7/2
	} else {
		score = high*3 + low*3/2
		if suited {
			score += 6
		}
		gap := high - low - 1
		if gap > 4 {
			gap = 4
		}
		score -= gap * 4
	}
	score = clampScore(score)

	name := poker.Rank(high).String() + poker.Rank(low).String()
	switch {
	case pair:
		name = "Pocket " + pluralRank(poker.Rank(high))
	case suited:
		name += " suited"
	default:
		name += " offsuit"
	}

	label := strengthLabel(score)
	return &HandInsight{
		CurrentHand:    name,
		StrengthScore:  score,
		StrengthLabel:  label,
		Draws:          []string{},
		Recommendation: recommendation(label),
	}
}

// categoryScore anchors the postflop score so it is monotonic in the
// made-hand category.
var categoryScore = map[poker.HandCategory]int{
	poker.HighCard:      25,
	poker.OnePair:       45,
	poker.TwoPair:       62,
	poker.ThreeOfAKind:  72,
	poker.Straight:      80,
	poker.Flush:         85,
	poker.FullHouse:     92,
	poker.FourOfAKind:   97,
	poker.StraightFlush: 100,
}

func postflopInsight(hole []poker.Card, community []poker.Card) *HandInsight {
	known := append(append([]poker.Card{}, hole...), community...)
	rank, err := poker.Evaluate(known)
	if err != nil {
		return nil
	}

	score := categoryScore[rank.Category]
	draws := detectDraws(known, rank.Category)
	if len(community) < 5 {
		for _, d := range draws {
			switch d {
			case "Flush draw":
				score += 8
			case "Open-ended straight draw":
				score += 6
			case "Gutshot straight draw":
				score += 3
			}
		}
	} else {
		draws = []string{}
	}
	score = clampScore(score)

	label := strengthLabel(score)
	return &HandInsight{
		CurrentHand:    rank.String(),
		StrengthScore:  score,
		StrengthLabel:  label,
		Draws:          draws,
		Recommendation: recommendation(label),
	}
}

// detectDraws finds four-to-a-suit and four-to-a-run holdings by
// scanning the thirteen rank values and the five-rank straight
// windows (ace counting low for the wheel window).
func detectDraws(known []poker.Card, made poker.HandCategory) []string {
	draws := []string{}

	if made < poker.Flush {
		suitCounts := make(map[poker.Suit]int)
		for _, c := range known {
			suitCounts[c.Suit]++
		}
		for _, n := range suitCounts {
			if n == 4 {
				draws = append(draws, "Flush draw")
				break
			}
		}
	}

	if made < poker.Straight {
		if d := straightDraw(known); d != "" {
			draws = append(draws, d)
		}
	}

	return draws
}

// straightDraw classifies a four-to-a-run holding as open-ended or
// gutshot, or returns "".
func straightDraw(known []poker.Card) string {
	present := make(map[int]bool)
	for _, c := range known {
		present[int(c.Rank)] = true
		if c.Rank == poker.Ace {
			present[1] = true // wheel
		}
	}

	// Four consecutive ranks with a live card on either end is
	// open-ended; otherwise any five-rank window missing exactly one
	// interior rank is a gutshot.
	for start := 1; start+3 <= 14; start++ {
		run := true
		for r := start; r < start+4; r++ {
			if !present[r] {
				run = false
				break
			}
		}
		if !run {
			continue
		}
		lowOpen := start-1 >= 1 && !present[start-1]
		highOpen := start+4 <= 14 && !present[start+4]
		if lowOpen && highOpen {
			return "Open-ended straight draw"
		}
		if lowOpen || highOpen {
			return "Gutshot straight draw"
		}
	}

	for start := 1; start+4 <= 14; start++ {
		missing := 0
		for r := start; r < start+5; r++ {
			if !present[r] {
				missing++
			}
		}
		if missing == 1 {
			return "Gutshot straight draw"
		}
	}

	return ""
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 100 {
		return 100
	}
	return score
}

func strengthLabel(score int) string {
	switch {
	case score >= 90:
		return "Monster"
	case score >= 78:
		return "Very Strong"
	case score >= 64:
		return "Strong"
	case score >= 50:
		return "Playable"
	case score >= 36:
		return "Marginal"
	default:
		return "Weak"
	}
}

func recommendation(label string) string {
	switch label {
	case "Monster", "Very Strong":
		return "Bet or raise for value"
	case "Strong":
		return "Bet or call"
	case "Playable":
		return "Proceed with caution"
	case "Marginal":
		return "Check, or call small bets"
	default:
		return "Check or fold"
	}
}

func pluralRank(r poker.Rank) string {
	if r == poker.Six {
		return "Sixes"
	}
	return r.Name() + "s"
}
