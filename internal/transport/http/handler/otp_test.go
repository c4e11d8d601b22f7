package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/otp-login/internal/domain"
	jwtinfra "github.com/otp-login/internal/infrastructure/jwt"
	"github.com/otp-login/internal/transport/http/middleware"
)

// --- mocks ---

type mockOTPSvc struct{ mock.Mock }

func (m *mockOTPSvc) Generate(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
func (m *mockOTPSvc) Send(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
func (m *mockOTPSvc) Verify(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, path string, v interface{}) (*httptest.ResponseRecorder, MessageEnvelope) {
	t.Helper()
	var body []byte
	switch b := v.(type) {
	case string:
		body = []byte(b)
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, r)
	var resp MessageEnvelope
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&resp))
	return rr, resp
}

// --- Send ---

func TestSend_InvalidBody(t *testing.T) {
	h := NewOTPHandler(&mockOTPSvc{}, nil)
	rr, resp := postJSON(t, h.Send, "/api/send-otp", "not-json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", resp.Message)
}

func TestSend_MissingEmail(t *testing.T) {
	svc := &mockOTPSvc{}
	h := NewOTPHandler(svc, nil)
	rr, _ := postJSON(t, h.Send, "/api/send-otp", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// The server does not check email syntax.
func TestSend_AcceptsAnyNonEmptyEmail(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Send", mock.Anything, "not an email").Return(nil)
	h := NewOTPHandler(svc, nil)
	rr, resp := postJSON(t, h.Send, "/api/send-otp", domain.SendOTPRequest{Email: "not an email"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OTP sent successfully", resp.Message)
	svc.AssertExpectations(t)
}

func TestSend_DeliveryFailure(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Send", mock.Anything, "a@b.com").Return(fmt.Errorf("send otp: %w", domain.ErrDelivery))
	h := NewOTPHandler(svc, nil)
	rr, resp := postJSON(t, h.Send, "/api/send-otp", domain.SendOTPRequest{Email: "a@b.com"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to send OTP", resp.Message)
}

// --- Verify ---

func TestVerify_Invalid(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, "a@b.com", "0000").Return(fmt.Errorf("verify otp: %w", domain.ErrInvalidOTP))
	h := NewOTPHandler(svc, nil)
	rr, resp := postJSON(t, h.Verify, "/api/verify-otp", domain.VerifyOTPRequest{Email: "a@b.com", OTP: "0000"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid OTP", resp.Message)
}

func TestVerify_StoreError(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, "a@b.com", "1234").Return(errors.New("redis down"))
	h := NewOTPHandler(svc, nil)
	rr, resp := postJSON(t, h.Verify, "/api/verify-otp", domain.VerifyOTPRequest{Email: "a@b.com", OTP: "1234"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to verify OTP", resp.Message)
}

func TestVerify_HappyPath_NoToken(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, "a@b.com", "1234").Return(nil)
	h := NewOTPHandler(svc, nil)
	rr, resp := postJSON(t, h.Verify, "/api/verify-otp", domain.VerifyOTPRequest{Email: "a@b.com", OTP: "1234"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OTP verified successfully", resp.Message)
	assert.Empty(t, resp.Token)
}

func TestVerify_HappyPath_WithToken(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, "a@b.com", "1234").Return(nil)
	signer := &mockSigner{}
	signer.On("Sign", "a@b.com").Return("signed-token", nil)
	h := NewOTPHandler(svc, signer)
	rr, resp := postJSON(t, h.Verify, "/api/verify-otp", domain.VerifyOTPRequest{Email: "a@b.com", OTP: "1234"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "signed-token", resp.Token)
	signer.AssertExpectations(t)
}

func TestVerify_SignFailure(t *testing.T) {
	svc := &mockOTPSvc{}
	svc.On("Verify", mock.Anything, "a@b.com", "1234").Return(nil)
	signer := &mockSigner{}
	signer.On("Sign", "a@b.com").Return("", errors.New("no key"))
	h := NewOTPHandler(svc, signer)
	rr, _ := postJSON(t, h.Verify, "/api/verify-otp", domain.VerifyOTPRequest{Email: "a@b.com", OTP: "1234"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

// --- Session / Health ---

func TestSession_MissingClaims(t *testing.T) {
	rr := httptest.NewRecorder()
	NewSessionHandler().GetCurrent(rr, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSession_ReturnsEmail(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.ClaimsKey, &jwtinfra.Claims{Email: "a@b.com"}))
	rr := httptest.NewRecorder()
	NewSessionHandler().GetCurrent(rr, r)
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp SessionEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "a@b.com", resp.Email)
}

func TestHealth_Ping(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler().Ping(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
