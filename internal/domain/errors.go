package domain

import "errors"

var (
	ErrNoPOICandidates          = errors.New("no point of interest candidates")
	ErrInvalidDuration          = errors.New("trip duration must be at least one day")
	ErrCollaboratorsUnavailable = errors.New("candidate and signal sources both unavailable")
	ErrUnknownZone              = errors.New("unknown zone")
	ErrMalformedStop            = errors.New("malformed stop")
	ErrInvalidPreferences       = errors.New("invalid preferences")
)
