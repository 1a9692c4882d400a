package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quiz-signup/internal/domain"
	"github.com/quiz-signup/internal/pkg/validate"
)

// MessageEnvelope is the generic response wrapper. The *Remaining fields accompany
// lockout, cooldown, and invalid-code errors.
type MessageEnvelope struct {
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
	ErrorCode         int    `json:"error_code,omitempty"`
	MinutesRemaining  int    `json:"minutes_remaining,omitempty"`
	SecondsRemaining  int    `json:"seconds_remaining,omitempty"`
	AttemptsRemaining *int   `json:"attempts_remaining,omitempty"`
}

// AuthEnvelope wraps responses that authenticate an account.
type AuthEnvelope struct {
	Bearer  string       `json:"Bearer,omitempty"`
	User    *domain.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// SignupEnvelope wraps signup responses.
type SignupEnvelope struct {
	Email                string       `json:"email"`
	VerificationRequired bool         `json:"verification_required"`
	Bearer               string       `json:"Bearer,omitempty"`
	User                 *domain.User `json:"user,omitempty"`
	Message              string       `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// decodeBody reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}
