package tournament

import "errors"

// Error kinds. Every specific error below matches exactly one kind with errors.Is.
var (
	// ErrValidation is bad input from the caller. Nothing was mutated.
	ErrValidation = errors.New("validation error")
	// ErrConsistency means the aggregate contradicts itself, usually a
	// generation bug rather than user input.
	ErrConsistency = errors.New("consistency fault")
	ErrNotFound    = errors.New("not found")
	// ErrAlreadyExists guards destructive regeneration; retry with force.
	ErrAlreadyExists = errors.New("already exists")
)

var (
	ErrInvalidPot           = newKindError("pot must be between 1 and 5", ErrValidation)
	ErrInvalidScore         = newKindError("invalid score", ErrValidation)
	ErrNotEnoughEntrants    = newKindError("at least 2 entrants are required", ErrValidation)
	ErrUnpairedParticipant  = newKindError("odd number of participants, one would be left without a partner", ErrValidation)
	ErrGroupStageIncomplete = newKindError("group stage is not complete", ErrValidation)
	ErrInvalidTransition    = newKindError("invalid status transition", ErrValidation)
	ErrMissingEntrant       = newKindError("match has an empty slot", ErrValidation)
	ErrTooManyGroups        = newKindError("too many groups", ErrValidation)
	ErrInvalidQualifiers    = newKindError("qualifiers per group must be positive", ErrValidation)
	ErrWrongFormat          = newKindError("operation not available for this format", ErrValidation)
	ErrMissingName          = newKindError("name is required", ErrValidation)
	ErrInvalidSex           = newKindError("unknown sex", ErrValidation)
	ErrDuplicateParticipant = newKindError("participant listed twice", ErrValidation)
	ErrNotDoubles           = newKindError("category is not a doubles category", ErrValidation)
	ErrNotEligible          = newKindError("participant is not eligible for the category", ErrValidation)
	ErrNoCategories         = newKindError("at least one category is required", ErrValidation)

	ErrSlotOccupied   = newKindError("next match slot already occupied", ErrConsistency)
	ErrUnknownEntrant = newKindError("entrant is not a member of the group", ErrConsistency)
	ErrBrokenLink     = newKindError("bracket link points to a missing match", ErrConsistency)
	ErrWinnerMismatch = newKindError("winner is not one of the match entrants", ErrConsistency)

	ErrTournamentNotFound  = newKindError("tournament not found", ErrNotFound)
	ErrCategoryNotFound    = newKindError("category not found", ErrNotFound)
	ErrMatchNotFound       = newKindError("match not found", ErrNotFound)
	ErrGroupNotFound       = newKindError("group not found", ErrNotFound)
	ErrParticipantNotFound = newKindError("participant not found", ErrNotFound)

	ErrMatchesExist  = newKindError("matches already generated", ErrAlreadyExists)
	ErrKnockoutExist = newKindError("knockout stage already generated", ErrAlreadyExists)
)

type kindError struct {
	msg  string
	kind error
}

func newKindError(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}
