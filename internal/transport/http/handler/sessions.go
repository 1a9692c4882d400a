package handler

import (
	"net/http"

	"github.com/quiz-signup/internal/application/signup"
	"github.com/quiz-signup/internal/domain"
)

// SessionHandler handles login.
type SessionHandler struct {
	svc signup.Service
}

func NewSessionHandler(svc signup.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: sess.Bearer, User: sess.User})
}
