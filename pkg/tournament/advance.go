package tournament

import (
	"time"

	"golang.org/x/xerrors"
)

// Match status transitions:
//
//	scheduled -> ongoing -> completed
//	scheduled -> completed
//	scheduled | ongoing -> cancelled
//
// completed and cancelled are terminal. None of the functions below touch the
// tournament when they return an error.

// StartMatch marks a scheduled match as being played.
func StartMatch(t *Tournament, matchID string, now time.Time) (*Match, error) {
	m, err := t.Match(matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != MatchScheduled {
		return nil, xerrors.Errorf("match %d %s -> %s: %w", m.Number, m.Status, MatchOngoing, ErrInvalidTransition)
	}
	if m.Participant1 == nil || m.Participant2 == nil {
		return nil, xerrors.Errorf("match %d: %w", m.Number, ErrMissingEntrant)
	}
	m.Status = MatchOngoing
	m.UpdatedAt = now
	t.UpdatedAt = now
	return m, nil
}

// CancelMatch ends a match without a winner. In a bracket the next match keeps
// its empty slot.
func CancelMatch(t *Tournament, matchID string, now time.Time) (*Match, error) {
	m, err := t.Match(matchID)
	if err != nil {
		return nil, err
	}
	if m.Finished() {
		return nil, xerrors.Errorf("match %d %s -> %s: %w", m.Number, m.Status, MatchCancelled, ErrInvalidTransition)
	}
	m.Status = MatchCancelled
	m.UpdatedAt = now
	t.UpdatedAt = now
	return m, nil
}

// ScheduleMatch sets the court and start time. Nil leaves a field unchanged.
func ScheduleMatch(t *Tournament, matchID string, court *string, at *time.Time, now time.Time) (*Match, error) {
	m, err := t.Match(matchID)
	if err != nil {
		return nil, err
	}
	if m.Finished() {
		return nil, xerrors.Errorf("match %d is %s: %w", m.Number, m.Status, ErrInvalidTransition)
	}
	if court != nil {
		c := *court
		m.Court = &c
	}
	if at != nil {
		a := at.UTC()
		m.ScheduledAt = &a
	}
	m.UpdatedAt = now
	t.UpdatedAt = now
	return m, nil
}

// CompleteMatch records a validated best of three result and fixes the
// winner. A group match triggers a full recompute of the group standings; an
// elimination match moves the winner into the slot of the next match that is
// linked to this one.
func CompleteMatch(t *Tournament, matchID string, scores []SetScore, now time.Time) (*Match, error) {
	m, err := t.Match(matchID)
	if err != nil {
		return nil, err
	}
	if m.Finished() {
		return nil, xerrors.Errorf("match %d %s -> %s: %w", m.Number, m.Status, MatchCompleted, ErrInvalidTransition)
	}
	if m.Participant1 == nil || m.Participant2 == nil {
		return nil, xerrors.Errorf("match %d: %w", m.Number, ErrMissingEntrant)
	}
	side, err := ValidateResult(scores)
	if err != nil {
		return nil, xerrors.Errorf("match %d: %w", m.Number, err)
	}

	updated := *m
	updated.Scores = append([]SetScore(nil), scores...)
	updated.Status = MatchCompleted
	updated.UpdatedAt = now
	winner := *m.Participant1
	if side == 2 {
		winner = *m.Participant2
	}
	updated.WinnerID = winner.ID

	if m.GroupID != "" {
		group, err := t.Group(m.GroupID)
		if err != nil {
			return nil, xerrors.Errorf("match %d: %w", m.Number, err)
		}
		matches := t.GroupMatches(m.GroupID)
		for i := range matches {
			if matches[i].ID == m.ID {
				matches[i] = updated
			}
		}
		standings, err := ComputeStandings(*group, matches)
		if err != nil {
			return nil, err
		}
		*m = updated
		group.Standings = standings
		t.UpdatedAt = now
		return m, nil
	}

	if m.NextMatchID != "" {
		next, err := t.Match(m.NextMatchID)
		if err != nil {
			return nil, xerrors.Errorf("match %d next %s: %w", m.Number, m.NextMatchID, ErrBrokenLink)
		}
		candidate := *next
		if err := placeWinner(&candidate, m.ID, winner); err != nil {
			return nil, err
		}
		candidate.UpdatedAt = now
		*next = candidate
	}
	*m = updated
	t.UpdatedAt = now
	return m, nil
}

// RefreshStatus completes an ongoing tournament once every match is finished.
// A mixed tournament also needs the knockout stage of every category drawn.
// It reports whether the status changed.
func RefreshStatus(t *Tournament, now time.Time) bool {
	if t.Status != StatusOngoing || len(t.Matches) == 0 {
		return false
	}
	if t.Format == FormatMixed {
		for _, c := range t.Categories {
			if len(t.CategoryMatches(c.ID, StageKnockout)) == 0 {
				return false
			}
		}
	}
	for i := range t.Matches {
		if !t.Matches[i].Finished() {
			return false
		}
	}
	t.Status = StatusCompleted
	t.UpdatedAt = now
	return true
}
