package errors

import (
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

var (
	ErrSettingsNotFound = pkgerrors.NewNotFoundError("settings not found")
	ErrUnknownFlag      = pkgerrors.NewValidationError("unknown setting flag")
	ErrEmptyTrigger     = pkgerrors.NewValidationError("trigger and response are required")
	ErrEmptyWord        = pkgerrors.NewValidationError("banned word is required")
	ErrNotGroup         = pkgerrors.NewValidationError("activity is tracked for groups only")
	ErrInvalidBody      = pkgerrors.NewValidationError("invalid request body")
	ErrStoreFailure     = pkgerrors.NewLocalIOError("settings store failure")
)
