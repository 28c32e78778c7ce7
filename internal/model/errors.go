package model

import "errors"

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrDatabaseNotFound = errors.New("database not found")
	ErrInvalidTable     = errors.New("invalid table")
)
