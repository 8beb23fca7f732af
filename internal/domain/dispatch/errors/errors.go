package errors

import (
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

var (
	ErrExecutorTimeout = pkgerrors.NewTransientNetworkError("Request timeout. Function took too long to execute.")
	ErrExecutorRefused = pkgerrors.NewTransientNetworkError("Cannot connect to the executor API. Please check if the service is running.")
	ErrInvalidResponse = pkgerrors.NewRemoteApplicationError("invalid executor response")
	ErrNoMediaSource   = pkgerrors.NewValidationError("result has no media source")
	ErrObjectStoreOff  = pkgerrors.NewServiceUnavailableError("s3 media references are disabled")
	ErrInvalidMediaRef = pkgerrors.NewValidationError("invalid s3 media reference")
	ErrMediaDownload   = pkgerrors.NewTransientNetworkError("media download failed")
)

// DefaultRemoteError is reported when the executor fails without a reason
const DefaultRemoteError = "Function execution failed"
