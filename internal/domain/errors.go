package domain

import (
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

var (
	// ErrNotConnected is returned when a chat operation runs before the connection is ready
	ErrNotConnected = pkgerrors.NewServiceUnavailableError("not connected to chat network")

	// ErrPeerNotFound is returned when an identity has not been seen yet
	ErrPeerNotFound = pkgerrors.NewNotFoundError("peer not found")

	// ErrMessageNotFound is returned when a referenced message no longer exists
	ErrMessageNotFound = pkgerrors.NewNotFoundError("message not found")

	// ErrInvalidIdentity is returned for malformed identity strings
	ErrInvalidIdentity = pkgerrors.NewValidationError("invalid identity")

	// ErrNotGroup is returned for group operations on a direct chat
	ErrNotGroup = pkgerrors.NewValidationError("chat is not a group")
)
