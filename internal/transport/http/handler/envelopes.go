package handler

import (
	"encoding/json"
	"net/http"
)

// Response messages are part of the public contract; clients match on them.
const (
	msgOTPSent        = "OTP sent successfully"
	msgSendFailed     = "Failed to send OTP"
	msgOTPVerified    = "OTP verified successfully"
	msgInvalidOTP     = "Invalid OTP"
	msgVerifyFailed   = "Failed to verify OTP"
	msgInvalidRequest = "Invalid request body"
)

// MessageEnvelope is the generic response wrapper. Errors use the same shape.
type MessageEnvelope struct {
	Message string `json:"message"`
	// Token is a signed login token, present only when token signing is configured.
	Token string `json:"token,omitempty"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Email string `json:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}
