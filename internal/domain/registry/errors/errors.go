// Package errors contains domain-specific errors for the registry domain
package errors

import (
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

// Domain errors for registry operations
var (
	ErrInvalidChannelType = pkgerrors.NewValidationError("invalid channel type")
	ErrEmptyURL           = pkgerrors.NewValidationError("channel url cannot be empty")
	ErrEmptyKeyword       = pkgerrors.NewValidationError("keyword cannot be empty")
	ErrEmptyIdentifier    = pkgerrors.NewValidationError("identifier cannot be empty")
	ErrDatabaseOperation  = pkgerrors.NewInternalError("database operation failed")
)
