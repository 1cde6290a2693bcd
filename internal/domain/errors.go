package domain

import (
	"errors"
)

var (
	ErrInvalidTicketRequest = errors.New("invalid ticket request")
	ErrInvalidPurchase      = errors.New("invalid purchase")

	ErrInvalidAccountID       = errors.New("account ID must be a positive integer")
	ErrNoTicketRequests       = errors.New("at least one ticket request is required")
	ErrMalformedTicketRequest = errors.New("all ticket requests must be well-formed with a positive number of tickets")
	ErrUnknownTicketCategory  = errors.New("unknown ticket type")
	ErrMaxTicketsExceeded     = errors.New("exceeds maximum tickets per purchase")
	ErrAdultRequired          = errors.New("child and infant tickets cannot be purchased without an adult ticket")
	ErrInfantsExceedAdults    = errors.New("cannot have more infant tickets than adult tickets")
	ErrCollaboratorFailed     = errors.New("payment or seat reservation failed")

	ErrRecordNotFound       = errors.New("record not found")
	ErrInvalidPricingConfig = errors.New("invalid pricing config")
	ErrNotEnoughSeats       = errors.New("not enough seats available")
	ErrInvalidSeatCount     = errors.New("seat count must not be negative")
)

var reasonCodes = map[error]string{
	ErrInvalidAccountID:       "invalid_account_id",
	ErrNoTicketRequests:       "no_ticket_requests",
	ErrMalformedTicketRequest: "malformed_ticket_request",
	ErrUnknownTicketCategory:  "unknown_ticket_type",
	ErrMaxTicketsExceeded:     "max_tickets_exceeded",
	ErrAdultRequired:          "adult_required",
	ErrInfantsExceedAdults:    "infants_exceed_adults",
	ErrCollaboratorFailed:     "collaborator_failed",
}

// InvalidPurchaseError is the only error kind returned by the engine and the ticket service.
// Kind identifies which rule failed; Cause is set when an external collaborator failed.
type InvalidPurchaseError struct {
	Reason string
	Kind   error
	Cause  error
}

func (e *InvalidPurchaseError) Error() string {
	return e.Reason
}

func (e *InvalidPurchaseError) Is(target error) bool {
	return target == ErrInvalidPurchase
}

func (e *InvalidPurchaseError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}

	return errs
}

// NewInvalidPurchase builds an InvalidPurchaseError of the given kind. An empty
// reason defaults to the kind's message.
func NewInvalidPurchase(kind error, reason string) *InvalidPurchaseError {
	if reason == "" {
		reason = kind.Error()
	}

	return &InvalidPurchaseError{Reason: reason, Kind: kind}
}

// WrapCollaboratorFailure converts an error raised by the payment or reservation
// collaborator into an InvalidPurchaseError that keeps the cause's message.
func WrapCollaboratorFailure(cause error) *InvalidPurchaseError {
	return &InvalidPurchaseError{
		Reason: ErrCollaboratorFailed.Error() + ": " + cause.Error(),
		Kind:   ErrCollaboratorFailed,
		Cause:  cause,
	}
}

// ReasonCode returns a stable machine readable code for err, or "" when err is
// not an InvalidPurchaseError.
func ReasonCode(err error) string {
	var purchaseErr *InvalidPurchaseError
	if !errors.As(err, &purchaseErr) {
		return ""
	}

	if code, ok := reasonCodes[purchaseErr.Kind]; ok {
		return code
	}

	return "invalid_purchase"
}
