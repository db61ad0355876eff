package tournament

import "sort"

// ClassifyByPot buckets participants by tier. Every tier from MinPot to
// MaxPot is present in the result, empty tiers map to an empty slice.
// Participants with an out of range pot are left out.
func ClassifyByPot(participants []Participant) map[Pot][]Participant {
	pots := make(map[Pot][]Participant, int(MaxPot))
	for p := MinPot; p <= MaxPot; p++ {
		pots[p] = []Participant{}
	}
	for _, p := range participants {
		if !p.Pot.Valid() {
			continue
		}
		pots[p.Pot] = append(pots[p.Pot], p)
	}
	return pots
}

// SortByStrength returns a copy ordered strongest pot first. Equal pots keep
// their input order.
func SortByStrength(entrants []Entrant) []Entrant {
	sorted := append([]Entrant(nil), entrants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pot < sorted[j].Pot
	})
	return sorted
}

func sortParticipantsByStrength(participants []Participant) []Participant {
	sorted := append([]Participant(nil), participants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pot < sorted[j].Pot
	})
	return sorted
}
