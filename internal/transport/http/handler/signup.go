package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/quiz-signup/internal/application/pending"
	"github.com/quiz-signup/internal/application/signup"
	"github.com/quiz-signup/internal/domain"
)

// SignupHandler handles signup and email verification endpoints.
type SignupHandler struct {
	svc signup.Service
}

func NewSignupHandler(svc signup.Service) *SignupHandler {
	return &SignupHandler{svc: svc}
}

func (h *SignupHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.Register(r.Context(), req)
	var notifErr *pending.NotificationError
	switch {
	case errors.As(err, &notifErr) && res != nil:
		writeJSON(w, http.StatusAccepted, SignupEnvelope{
			Email:                res.Email,
			VerificationRequired: true,
			Message:              "signup saved but the verification code could not be sent, request a resend",
		})
	case err != nil:
		httpError(w, err)
	case res.VerificationRequired:
		writeJSON(w, http.StatusCreated, SignupEnvelope{
			Email:                res.Email,
			VerificationRequired: true,
			Message:              "verification code sent",
		})
	default:
		writeJSON(w, http.StatusCreated, SignupEnvelope{
			Email:   res.Email,
			Bearer:  res.Session.Bearer,
			User:    res.Session.User,
			Message: "account created",
		})
	}
}

// EmailVerification dispatches /email-verification/{action}: resend | validate-code.
func (h *SignupHandler) EmailVerification(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "resend":
		var req domain.ResendCodeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.svc.ResendCode(r.Context(), req.Email); err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
	case "validate-code":
		var req domain.VerifyEmailRequest
		if !decodeBody(w, r, &req) {
			return
		}
		sess, err := h.svc.VerifyEmail(r.Context(), req)
		if err != nil {
			httpError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, AuthEnvelope{Bearer: sess.Bearer, User: sess.User, Message: "email verified"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
