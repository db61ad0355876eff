package tournament

import (
	"math"
)

type PairingMode string

const (
	// PairingBalanced pairs the strongest remaining player with the weakest.
	PairingBalanced PairingMode = "balanced"
	// PairingRandom shuffles and pairs neighbours.
	PairingRandom PairingMode = "random"
)

// TeamPot is the rounded average of both pots, halves round up.
func TeamPot(a, b Pot) Pot {
	pot := Pot(math.Round(float64(a+b) / 2))
	if pot < MinPot {
		return MinPot
	}
	if pot > MaxPot {
		return MaxPot
	}
	return pot
}

// BuildTeams pairs the participants of a doubles category. When the count is
// odd the participant that could not be paired is returned instead of being
// dropped. Mixed categories always pair a man with a woman; the surplus of the
// larger side is not paired and the first of them is returned.
func (g *Generator) BuildTeams(category Category, participants []Participant, mode PairingMode) ([]Team, *Participant) {
	if category.Sex == SexMixed {
		return g.buildMixedTeams(category.ID, participants, mode)
	}

	var pairs [][2]Participant
	var unpaired *Participant
	switch mode {
	case PairingRandom:
		pairs, unpaired = randomPairs(participants, g.shuffle)
	default:
		pairs, unpaired = balancedPairs(participants)
	}
	return g.teamsFromPairs(category.ID, pairs), unpaired
}

func (g *Generator) buildMixedTeams(categoryID string, participants []Participant, mode PairingMode) ([]Team, *Participant) {
	var men, women []Participant
	for _, p := range participants {
		if p.Sex == SexFemale {
			women = append(women, p)
		} else {
			men = append(men, p)
		}
	}
	if mode == PairingRandom && g.shuffle(len(men), func(i, j int) { men[i], men[j] = men[j], men[i] }) {
		g.shuffle(len(women), func(i, j int) { women[i], women[j] = women[j], women[i] })
	} else {
		men = sortParticipantsByStrength(men)
		women = sortParticipantsByStrength(women)
		reverse(women)
	}

	n := min(len(men), len(women))
	pairs := make([][2]Participant, n)
	for i := 0; i < n; i++ {
		pairs[i] = [2]Participant{men[i], women[i]}
	}

	var unpaired *Participant
	if len(men) > n {
		unpaired = &men[n]
	} else if len(women) > n {
		unpaired = &women[n]
	}
	return g.teamsFromPairs(categoryID, pairs), unpaired
}

// balancedPairs splits the strength-sorted list at the midpoint and pairs the
// i-th strongest with the i-th weakest.
func balancedPairs(participants []Participant) ([][2]Participant, *Participant) {
	sorted := sortParticipantsByStrength(participants)

	var unpaired *Participant
	if len(sorted)%2 == 1 {
		last := sorted[len(sorted)-1]
		unpaired = &last
		sorted = sorted[:len(sorted)-1]
	}

	half := len(sorted) / 2
	strong := sorted[:half]
	weak := append([]Participant(nil), sorted[half:]...)
	reverse(weak)

	pairs := make([][2]Participant, half)
	for i := range strong {
		pairs[i] = [2]Participant{strong[i], weak[i]}
	}
	return pairs, unpaired
}

func randomPairs(participants []Participant, shuffle func(n int, swap func(i, j int)) bool) ([][2]Participant, *Participant) {
	shuffled := append([]Participant(nil), participants...)
	shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var unpaired *Participant
	if len(shuffled)%2 == 1 {
		last := shuffled[len(shuffled)-1]
		unpaired = &last
		shuffled = shuffled[:len(shuffled)-1]
	}

	pairs := make([][2]Participant, 0, len(shuffled)/2)
	for i := 0; i+1 < len(shuffled); i += 2 {
		pairs = append(pairs, [2]Participant{shuffled[i], shuffled[i+1]})
	}
	return pairs, unpaired
}

func (g *Generator) teamsFromPairs(categoryID string, pairs [][2]Participant) []Team {
	teams := make([]Team, len(pairs))
	for i, pair := range pairs {
		teams[i] = Team{
			ID:         g.newID(),
			CategoryID: categoryID,
			Player1:    pair[0],
			Player2:    pair[1],
			Pot:        TeamPot(pair[0].Pot, pair[1].Pot),
		}
	}
	return teams
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
