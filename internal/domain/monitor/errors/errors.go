// Package errors contains domain-specific errors for the relay pipeline
package errors

import (
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

// Domain errors for relay operations
var (
	ErrDestinationUnavailable = pkgerrors.NewServiceUnavailableError("destination channel is unavailable")
	ErrDeliveryFailed         = pkgerrors.NewInternalError("message delivery failed")
)
