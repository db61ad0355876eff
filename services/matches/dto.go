package matches

import (
	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

type ResultRequest struct {
	Sets []tournament.SetScore `json:"sets" binding:"required"`
}

type ScheduleRequest struct {
	Court       *string `json:"court"`
	ScheduledAt *string `json:"scheduledAt"`
}

// processEvents folds the scoreboard log into set scores, HOME being the
// participant1 side. Undone events are skipped.
func processEvents(events []store.Event) []tournament.SetScore {
	var sets []tournament.SetScore
	currentSet := tournament.SetScore{}
	undoneEvents := map[string]bool{}

	for _, event := range events {
		if event.EventType == store.EventUndo {
			undoneEvents[event.Undone] = true
		}
	}

	for _, event := range events {
		if undoneEvents[event.ID] {
			continue
		}

		switch event.EventType {
		case store.EventScore:
			if event.Team == store.TeamHome {
				currentSet.P1++
			} else if event.Team == store.TeamAway {
				currentSet.P2++
			}

		case store.EventSetFinalized, store.EventMatchFinalized:
			sets = append(sets, currentSet)
			currentSet = tournament.SetScore{}
		}
	}

	if currentSet.P1 > 0 || currentSet.P2 > 0 {
		sets = append(sets, currentSet)
	}
	return sets
}
