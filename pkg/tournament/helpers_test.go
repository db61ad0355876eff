package tournament

import (
	"fmt"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

// testGenerator returns a generator with sequential ids and no shuffling.
func testGenerator() *Generator {
	n := 0
	return NewGenerator(
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithRand(nil),
		WithClock(func() time.Time { return testNow }),
	)
}

func makeEntrants(pots ...Pot) []Entrant {
	entrants := make([]Entrant, len(pots))
	for i, p := range pots {
		entrants[i] = Entrant{
			Kind: KindParticipant,
			ID:   fmt.Sprintf("e%d", i+1),
			Name: fmt.Sprintf("Entrant %d", i+1),
			Pot:  p,
		}
	}
	return entrants
}

func makeParticipants(categoryID string, pots ...Pot) []Participant {
	participants := make([]Participant, len(pots))
	for i, p := range pots {
		participants[i] = Participant{
			ID:         fmt.Sprintf("p%d", i+1),
			Name:       fmt.Sprintf("Player %d", i+1),
			Pot:        p,
			Sex:        SexMale,
			Categories: []string{categoryID},
		}
	}
	return participants
}

func straightWin(p1Wins bool) []SetScore {
	if p1Wins {
		return []SetScore{{P1: 21, P2: 10}, {P1: 21, P2: 12}}
	}
	return []SetScore{{P1: 10, P2: 21}, {P1: 12, P2: 21}}
}

func matchByNumber(t *Tournament, number int) *Match {
	for i := range t.Matches {
		if t.Matches[i].Number == number {
			return &t.Matches[i]
		}
	}
	return nil
}
