package domain

import "errors"

var ErrInvalidInterval = errors.New("appointment start must precede end")
var ErrUnauthorized = errors.New("unauthorized")
var ErrNotFound = errors.New("not found")
var ErrSlotTaken = errors.New("slot no longer available")
var ErrUpstream = errors.New("upstream request failed")
var ErrNotConfirmable = errors.New("wizard is not on the confirmation step")
var ErrSubmissionInFlight = errors.New("a submission is already in flight")
var ErrAlreadySubmitted = errors.New("booking already submitted")
var ErrWizardNotFound = errors.New("wizard not found")
