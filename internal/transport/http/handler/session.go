package handler

import (
	"net/http"

	"github.com/otp-login/internal/transport/http/middleware"
)

// SessionHandler reports who a login token belongs to.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{Email: claims.Email})
}
