package client

import "errors"

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrBackupExists    = errors.New("backup file already exists")
	ErrBackupTooLarge  = errors.New("backup file is too large")
)
