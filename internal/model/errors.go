package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidDay    = errors.New("invalid day")
	ErrInputNotFound = errors.New("input file not found")
	ErrEmptyInput    = errors.New("no chat input provided")
	ErrUnknownGame   = errors.New("unknown game")
	ErrNoRecords     = errors.New("no game results found")

	// Storage errors
	ErrImportNotFound = errors.New("import not found")

	// Upload errors
	ErrUploadKeyRequired = errors.New("upload key required")
	ErrInvalidUploadKey  = errors.New("invalid upload key")
)
