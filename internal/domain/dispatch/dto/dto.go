package dto

import "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"

// ExecuteRequest is the body of POST /execute
type ExecuteRequest struct {
	Function string                  `json:"function"`
	Args     []string                `json:"args"`
	Context  entities.CommandContext `json:"context"`
}

// ErrorResponse is an executor error body
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
