package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/otp-login/internal/application/otp"
	"github.com/otp-login/internal/domain"
	"github.com/otp-login/internal/pkg/validate"
)

// TokenSigner issues a login token for a verified email.
type TokenSigner interface {
	Sign(email string) (string, error)
}

// OTPHandler serves the send/verify endpoints.
type OTPHandler struct {
	svc    otp.Service
	tokens TokenSigner // nil disables tokens
}

func NewOTPHandler(svc otp.Service, tokens TokenSigner) *OTPHandler {
	return &OTPHandler{svc: svc, tokens: tokens}
}

// Send handles POST /api/send-otp. The email format is not checked here.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body domain.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.svc.Send(r.Context(), body.Email); err != nil {
		if !errors.Is(err, domain.ErrDelivery) {
			slog.Error("send otp", "err", err)
		}
		writeError(w, http.StatusInternalServerError, msgSendFailed)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: msgOTPSent})
}

// Verify handles POST /api/verify-otp. Wrong and missing codes get the same answer.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.svc.Verify(r.Context(), body.Email, body.OTP); err != nil {
		if errors.Is(err, domain.ErrInvalidOTP) {
			writeError(w, http.StatusBadRequest, msgInvalidOTP)
			return
		}
		slog.Error("verify otp", "err", err)
		writeError(w, http.StatusInternalServerError, msgVerifyFailed)
		return
	}

	resp := MessageEnvelope{Message: msgOTPVerified}
	if h.tokens != nil {
		token, err := h.tokens.Sign(body.Email)
		if err != nil {
			// The code is already consumed; the user has to request a new one.
			slog.Error("sign login token", "err", err)
			writeError(w, http.StatusInternalServerError, msgVerifyFailed)
			return
		}
		resp.Token = token
	}
	writeJSON(w, http.StatusOK, resp)
}
