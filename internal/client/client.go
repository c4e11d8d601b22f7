// Package client is the browser-side half of the login flow: it validates the
// email locally and talks to the OTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/otp-login/internal/pkg/validate"
)

// Messages shown inline in the login form.
const (
	MsgInvalidEmail = "Invalid Email Address"
	MsgSendFailed   = "Failed to send OTP"
	MsgLoginOK      = "Login Successful"
	MsgInvalidOTP   = "Invalid OTP"
	MsgVerifyFailed = "Failed to verify OTP"
)

const (
	sendOTPPath     = "/api/send-otp"
	verifyOTPPath   = "/api/verify-otp"
	contentTypeJSON = "application/json"
)

var (
	ErrValidation   = errors.New(MsgInvalidEmail)
	ErrSendFailed   = errors.New(MsgSendFailed)
	ErrInvalidOTP   = errors.New(MsgInvalidOTP)
	ErrVerifyFailed = errors.New(MsgVerifyFailed)
)

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the OTP API rooted at baseURL.
type Client struct {
	baseURL string
	doer    Doer
}

func New(baseURL string, doer Doer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

type messageBody struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// ValidateEmail applies the form's address check.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "loginemail"); err != nil {
		return ErrValidation
	}
	return nil
}

// SendOTP asks the server to mail a code. Malformed addresses never reach the network.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	status, body, err := c.post(ctx, sendOTPPath, map[string]string{"email": email})
	if err != nil {
		return ErrSendFailed
	}
	if status < 200 || status > 299 {
		if body.Message != "" {
			return fmt.Errorf("%w: %s", ErrSendFailed, body.Message)
		}
		return ErrSendFailed
	}
	return nil
}

// VerifyOTP submits an assembled code and returns the message to display.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	status, _, err := c.post(ctx, verifyOTPPath, map[string]string{"email": email, "otp": code})
	if err != nil {
		return "", ErrVerifyFailed
	}
	if status < 200 || status > 299 {
		return "", ErrInvalidOTP
	}
	return MsgLoginOK, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (int, messageBody, error) {
	var out messageBody
	buf, err := json.Marshal(payload)
	if err != nil {
		return 0, out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return 0, out, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, out, err
	}
	defer resp.Body.Close()
	// Bodies are informational; a non-JSON body still yields the status.
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out, nil
}
