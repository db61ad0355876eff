package tournament

import (
	"golang.org/x/xerrors"
)

const (
	setPoints   = 21
	setCap      = 30
	setsToWin   = 2
	maxSets     = 2*setsToWin - 1
	winByMargin = 2
)

// ValidateSet checks one finished set: exactly 21 with a lead of at least two,
// or 30-29 at the cap. Nothing in between is accepted.
func ValidateSet(s SetScore) error {
	if s.P1 < 0 || s.P2 < 0 {
		return xerrors.Errorf("negative score %d-%d: %w", s.P1, s.P2, ErrInvalidScore)
	}
	w, l := s.P1, s.P2
	if l > w {
		w, l = l, w
	}
	switch {
	case w == setPoints && w-l >= winByMargin:
		return nil
	case w == setCap && l == setCap-1:
		return nil
	}
	return xerrors.Errorf("set %d-%d: %w", s.P1, s.P2, ErrInvalidScore)
}

// ValidateResult checks a best of three result and returns the winning side,
// 1 for participant1 and 2 for participant2. No set may follow the deciding
// one.
func ValidateResult(scores []SetScore) (int, error) {
	if len(scores) < setsToWin || len(scores) > maxSets {
		return 0, xerrors.Errorf("%d sets in a best of %d: %w", len(scores), maxSets, ErrInvalidScore)
	}
	won1, won2 := 0, 0
	for i, s := range scores {
		if won1 == setsToWin || won2 == setsToWin {
			return 0, xerrors.Errorf("set %d played after the match was decided: %w", i+1, ErrInvalidScore)
		}
		if err := ValidateSet(s); err != nil {
			return 0, xerrors.Errorf("set %d: %w", i+1, err)
		}
		if s.P1 > s.P2 {
			won1++
		} else {
			won2++
		}
	}
	switch {
	case won1 == setsToWin:
		return 1, nil
	case won2 == setsToWin:
		return 2, nil
	}
	return 0, xerrors.Errorf("sets %d-%d, no winner: %w", won1, won2, ErrInvalidScore)
}
