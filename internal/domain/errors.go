package domain

import "errors"

var (
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidColor    = errors.New("invalid color")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrUnknownCommand  = errors.New("unknown command")
)
