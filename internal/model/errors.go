package model

import "errors"

var (
	ErrSessionDoesNotExist  = errors.New("session does not exist")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrChatDoesNotExist     = errors.New("chat does not exist")
	ErrStoreDoesNotExist    = errors.New("store does not exist")
)
