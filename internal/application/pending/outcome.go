package pending

import "github.com/quiz-signup/internal/domain"

// Status is the result class of a verification attempt.
type Status string

const (
	StatusNotFound Status = "not_found"
	StatusLocked   Status = "locked"
	StatusExpired  Status = "expired"
	StatusInvalid  Status = "invalid"
	StatusVerified Status = "verified"
)

// Outcome describes a verification attempt. Exactly one Status applies.
// MinutesRemaining is set for StatusLocked, AttemptsRemaining for StatusInvalid,
// and Pending for StatusVerified.
type Outcome struct {
	Status            Status
	MinutesRemaining  int
	AttemptsRemaining int
	Pending           *domain.PendingSignup
}

// Verified reports whether the submitted code was accepted.
func (o *Outcome) Verified() bool { return o.Status == StatusVerified }

// Err converts a rejected outcome into the matching error. It returns nil for StatusVerified.
func (o *Outcome) Err() error {
	switch o.Status {
	case StatusNotFound:
		return ErrNoPendingSignup
	case StatusLocked:
		return &LockedError{MinutesRemaining: o.MinutesRemaining}
	case StatusExpired:
		return ErrCodeExpired
	case StatusInvalid:
		return &InvalidCodeError{AttemptsRemaining: o.AttemptsRemaining}
	default:
		return nil
	}
}
