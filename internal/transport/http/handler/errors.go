package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/quiz-signup/internal/application/pending"
	"github.com/quiz-signup/internal/domain"
)

// httpError maps service errors to status codes.
func httpError(w http.ResponseWriter, err error) {
	var (
		locked   *pending.LockedError
		cooldown *pending.CooldownError
		invalid  *pending.InvalidCodeError
		notif    *pending.NotificationError
	)
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(locked.MinutesRemaining*60))
		writeJSON(w, http.StatusTooManyRequests, MessageEnvelope{
			Error: err.Error(), ErrorCode: http.StatusTooManyRequests, MinutesRemaining: locked.MinutesRemaining,
		})
	case errors.As(err, &cooldown):
		w.Header().Set("Retry-After", strconv.Itoa(cooldown.SecondsRemaining))
		writeJSON(w, http.StatusTooManyRequests, MessageEnvelope{
			Error: err.Error(), ErrorCode: http.StatusTooManyRequests, SecondsRemaining: cooldown.SecondsRemaining,
		})
	case errors.As(err, &invalid):
		remaining := invalid.AttemptsRemaining
		writeJSON(w, http.StatusUnauthorized, MessageEnvelope{
			Error: err.Error(), ErrorCode: http.StatusUnauthorized, AttemptsRemaining: &remaining,
		})
	case errors.Is(err, pending.ErrCodeExpired):
		writeError(w, http.StatusGone, err.Error())
	case errors.As(err, &notif):
		writeError(w, http.StatusBadGateway, "verification code could not be sent, try again later")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
