package domain

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomClosed          = errors.New("room closed")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrStoreFull           = errors.New("room store is full")
)
