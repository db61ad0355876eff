package tournament

import (
	"fmt"

	"golang.org/x/xerrors"
)

// NextPowerOfTwo returns the smallest power of two that is >= n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// bracketPositions lists seed indexes (0 based) slot by slot for a bracket of
// the given power of two size. Seed s always meets seed size-1-s in the
// first round and the top seeds are kept apart until the late rounds:
// size 8 gives 0,7,3,4,1,6,2,5.
func bracketPositions(size int) []int {
	positions := []int{0}
	for n := 1; n < size; n <<= 1 {
		next := make([]int, 0, 2*len(positions))
		for _, s := range positions {
			next = append(next, s, 2*n-1-s)
		}
		positions = next
	}
	return positions
}

// SeedOrder places already ordered entrants (best first) into bracket slots.
// The result has a power of two length; nil slots are byes and always face
// the top seeds.
func SeedOrder(ordered []Entrant) []*Entrant {
	size := NextPowerOfTwo(len(ordered))
	if size < 2 {
		size = 2
	}
	slots := make([]*Entrant, size)
	for i, seed := range bracketPositions(size) {
		if seed < len(ordered) {
			e := ordered[seed]
			slots[i] = &e
		}
	}
	return slots
}

// RoundLabels names the rounds of an elimination bracket, first round first.
// The last rounds are always QF, SF and F; the round of 16 is R16.
func RoundLabels(rounds int) []string {
	tail := []string{"R16", "QF", "SF", "F"}
	labels := make([]string, rounds)
	for i := 0; i < rounds; i++ {
		fromEnd := rounds - 1 - i
		if fromEnd < len(tail) {
			labels[i] = tail[len(tail)-1-fromEnd]
			continue
		}
		labels[i] = fmt.Sprintf("R%d", i+1)
	}
	return labels
}

// GenerateElimination builds the whole single-elimination tree for entrants
// that are already in seed order. The first round pairs consecutive slots;
// every later round is a placeholder linked to its two predecessors. A first
// round match against a bye is completed at once and its entrant advanced.
func (g *Generator) GenerateElimination(tournamentID, categoryID string, ordered []Entrant) ([]Match, error) {
	if len(ordered) < 2 {
		return nil, xerrors.Errorf("bracket with %d: %w", len(ordered), ErrNotEnoughEntrants)
	}

	slots := SeedOrder(ordered)
	rounds := 0
	for n := len(slots); n > 1; n >>= 1 {
		rounds++
	}
	labels := RoundLabels(rounds)
	now := g.Now()

	newMatch := func(round string) Match {
		return Match{
			ID:           g.newID(),
			TournamentID: tournamentID,
			CategoryID:   categoryID,
			Stage:        StageKnockout,
			Round:        round,
			Status:       MatchScheduled,
			UpdatedAt:    now,
		}
	}

	matches := make([]Match, 0, len(slots)-1)
	for i := 0; i < len(slots); i += 2 {
		m := newMatch(labels[0])
		m.Participant1 = slots[i]
		m.Participant2 = slots[i+1]
		matches = append(matches, m)
	}

	prevStart, prevCount := 0, len(matches)
	for r := 1; r < rounds; r++ {
		count := (prevCount + 1) / 2
		start := len(matches)
		for i := 0; i < count; i++ {
			m := newMatch(labels[r])
			first := &matches[prevStart+2*i]
			first.NextMatchID = m.ID
			m.PreviousMatch1ID = first.ID
			if 2*i+1 < prevCount {
				second := &matches[prevStart+2*i+1]
				second.NextMatchID = m.ID
				m.PreviousMatch2ID = second.ID
			}
			matches = append(matches, m)
		}
		prevStart, prevCount = start, count
	}

	for i := range matches {
		matches[i].Number = i + 1
	}

	if err := resolveByes(matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// resolveByes completes first round matches with a single entrant and moves
// that entrant into the next round.
func resolveByes(matches []Match) error {
	index := make(map[string]int, len(matches))
	for i := range matches {
		index[matches[i].ID] = i
	}
	for i := range matches {
		m := &matches[i]
		if m.PreviousMatch1ID != "" || m.PreviousMatch2ID != "" {
			continue
		}
		var present *Entrant
		switch {
		case m.Participant1 != nil && m.Participant2 == nil:
			present = m.Participant1
		case m.Participant1 == nil && m.Participant2 != nil:
			present = m.Participant2
		default:
			continue
		}
		m.IsBye = true
		m.Status = MatchCompleted
		m.WinnerID = present.ID
		if m.NextMatchID == "" {
			continue
		}
		j, ok := index[m.NextMatchID]
		if !ok {
			return xerrors.Errorf("match %s next %s: %w", m.ID, m.NextMatchID, ErrBrokenLink)
		}
		if err := placeWinner(&matches[j], m.ID, *present); err != nil {
			return err
		}
	}
	return nil
}

// placeWinner writes the winner of prev into next. The slot is the one linked
// to prev; without links the first empty slot is used.
func placeWinner(next *Match, prevID string, winner Entrant) error {
	var slot **Entrant
	switch prevID {
	case next.PreviousMatch1ID:
		slot = &next.Participant1
	case next.PreviousMatch2ID:
		slot = &next.Participant2
	default:
		if next.Participant1 == nil {
			slot = &next.Participant1
		} else {
			slot = &next.Participant2
		}
	}
	if *slot != nil {
		return xerrors.Errorf("match %s, winner %s of %s: %w", next.ID, winner.ID, prevID, ErrSlotOccupied)
	}
	w := winner
	*slot = &w
	return nil
}
