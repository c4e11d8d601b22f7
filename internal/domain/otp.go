package domain

// OTPLength is the number of digits in a generated code.
const OTPLength = 4

// OTPRecord is a pending login code. The email is used verbatim as the key;
// "A@b.com" and "a@b.com" are different records.
type OTPRecord struct {
	Email string `json:"email" dynamodbav:"email"`
	Code  string `json:"code" dynamodbav:"code"`
}

// SendOTPRequest is the body of POST /api/send-otp.
type SendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyOTPRequest is the body of POST /api/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// EmailMessage is what a Mailer delivers.
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Text    string
}
