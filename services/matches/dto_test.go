package matches

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvbf/shuttle-club/pkg/tournament"
	"github.com/nvbf/shuttle-club/repos/store"
)

func TestProcessEvents(t *testing.T) {
	events := []store.Event{
		{ID: "1", EventType: store.EventScore, Team: store.TeamHome},
		{ID: "2", EventType: store.EventScore, Team: store.TeamAway},
		{ID: "3", EventType: store.EventScore, Team: store.TeamAway},
		{ID: "4", EventType: store.EventUndo, Undone: "3"},
		{ID: "5", EventType: store.EventSetFinalized},
		{ID: "6", EventType: store.EventScore, Team: store.TeamAway},
		{ID: "7", EventType: store.EventScore, Team: "UNKNOWN"},
	}

	sets := processEvents(events)

	assert.Equal(t, []tournament.SetScore{{P1: 1, P2: 1}, {P1: 0, P2: 1}}, sets)
}

func TestProcessEventsEmpty(t *testing.T) {
	assert.Empty(t, processEvents(nil))
	assert.Empty(t, processEvents([]store.Event{{ID: "1", EventType: store.EventUndo, Undone: "0"}}))
}

func TestProcessEventsMatchFinalized(t *testing.T) {
	events := []store.Event{
		{ID: "1", EventType: store.EventScore, Team: store.TeamHome},
		{ID: "2", EventType: store.EventMatchFinalized},
	}

	assert.Equal(t, []tournament.SetScore{{P1: 1}}, processEvents(events))
}
