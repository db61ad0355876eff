package store

// Event is one entry of the live scoreboard log of a match.
type Event struct {
	Author    string `firestore:"author"`
	EventType string `firestore:"eventType"`
	ID        string `firestore:"id"`
	PlayerID  int    `firestore:"playerId"`
	Reference string `firestore:"reference"`
	Team      string `firestore:"team"`
	Timestamp int64  `firestore:"timestamp"`
	Undone    string `firestore:"undone"`
}

const (
	EventScore          = "SCORE"
	EventSetFinalized   = "SET_FINALIZED"
	EventMatchFinalized = "MATCH_FINALIZED"
	EventUndo           = "UNDO"

	TeamHome = "HOME"
	TeamAway = "AWAY"
)
