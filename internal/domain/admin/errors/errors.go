// Package errors contains domain-specific errors for the admin domain.
// Validation messages are shown to the operator as is.
package errors

import (
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

// Domain errors for admin commands
var (
	ErrMissingArgument         = pkgerrors.NewValidationError("missing command argument")
	ErrInvalidChannelURL       = pkgerrors.NewValidationError("Некорректная ссылка на канал.")
	ErrInvalidIdentifier       = pkgerrors.NewValidationError("Идентификатор пользователя должен быть целым числом или именем пользователя, начинающимся с @.")
	ErrDestinationNotTrackable = pkgerrors.NewValidationError("Канал назначения нельзя добавить в отслеживаемые.")
	ErrAlreadyTracked          = pkgerrors.NewConflictError("channel is already tracked")
	ErrChannelNotFound         = pkgerrors.NewNotFoundError("channel is not tracked")
	ErrKeywordExists           = pkgerrors.NewConflictError("keyword already exists")
	ErrKeywordNotFound         = pkgerrors.NewNotFoundError("keyword not found")
	ErrAlreadyBlacklisted      = pkgerrors.NewConflictError("user is already blacklisted")
	ErrNotBlacklisted          = pkgerrors.NewNotFoundError("user is not blacklisted")
	ErrDestinationUnavailable  = pkgerrors.NewServiceUnavailableError("destination channel is unavailable")
	ErrNotAdmin                = pkgerrors.NewPermissionError("user is not an admin")
)
