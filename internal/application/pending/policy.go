package pending

import "time"

// Verification policy. These values are fixed.
const (
	OTPLength         = 6
	OTPValidity       = 10 * time.Minute
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
	ResendCooldown    = 60 * time.Second
)

const (
	// retention keeps a record around after its code and lock have lapsed so the
	// store TTL never erases an active lock.
	retention = 24 * time.Hour

	maxConflictRetries = 3
)

// minutesUntil returns the whole minutes from now until t, rounded up.
func minutesUntil(now, t time.Time) int {
	return ceilDiv(t.Sub(now), time.Minute)
}

// secondsUntil returns the whole seconds from now until t, rounded up.
func secondsUntil(now, t time.Time) int {
	return ceilDiv(t.Sub(now), time.Second)
}

func ceilDiv(d, unit time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + unit - 1) / unit)
}

// retainUntil is the Unix time after which the store may drop the record.
func retainUntil(otpExpiresAt time.Time, lockedUntil *time.Time) int64 {
	last := otpExpiresAt
	if lockedUntil != nil && lockedUntil.After(last) {
		last = *lockedUntil
	}
	return last.Add(retention).Unix()
}
