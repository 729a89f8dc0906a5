// Package errors contains domain-specific errors for channel resolution
package errors

import (
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

// Domain errors for channel resolution
var (
	ErrInvalidReference = pkgerrors.NewValidationError("invalid channel reference")
	ErrNotAMember       = pkgerrors.NewPermissionError("member account has not joined this chat")
	ErrResolution       = pkgerrors.NewInternalError("could not resolve channel")
	ErrNotAChannel      = pkgerrors.NewNotFoundError("resolved peer is not a channel")
	ErrUserNotFound     = pkgerrors.NewNotFoundError("user not found")
	ErrNotConnected     = pkgerrors.NewServiceUnavailableError("telegram client is not connected")
)
