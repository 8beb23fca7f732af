package dto

import (
	"encoding/json"
	"time"
)

// EncodingBase64 marks a data string that carries base64 bytes. A string
// without it is the credential text itself.
const EncodingBase64 = "base64"

// SessionResponse is the body of GET /session/{id}
type SessionResponse struct {
	Success *bool        `json:"success,omitempty"`
	Session *SessionData `json:"session"`
	Error   string       `json:"error,omitempty"`
}

// SessionData is the scanner's view of a credential bundle
type SessionData struct {
	Status      string          `json:"status"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Encoding    string          `json:"encoding,omitempty"`
}

// ValidateResponse is the body of GET /session/validate/{id}
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// PushRequest is the body of PUT /session/{id}
type PushRequest struct {
	Data     json.RawMessage `json:"data"`
	Encoding string          `json:"encoding,omitempty"`
}

// ErrorResponse is a scanner error body
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
