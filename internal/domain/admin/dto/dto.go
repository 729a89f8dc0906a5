// Package dto contains data transfer objects for admin commands
package dto

// CommandRequest is a parsed bot command
type CommandRequest struct {
	UserID   int64
	Username string
	Args     string
}

// CommandResponse is the single text reply to a command
type CommandResponse struct {
	Message string
}
