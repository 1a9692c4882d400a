package handler

import (
	"net/http"

	"github.com/quiz-signup/internal/application/signup"
	"github.com/quiz-signup/internal/transport/http/middleware"
)

// UserHandler serves the authenticated account.
type UserHandler struct {
	svc signup.Service
}

func NewUserHandler(svc signup.Service) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
