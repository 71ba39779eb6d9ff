package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so that transports can branch on
// them without matching message text
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindAuth
	KindNotInRoom
	KindValidation
	KindGameEnded
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNotInRoom:
		return "not_in_room"
	case KindValidation:
		return "validation"
	case KindGameEnded:
		return "game_ended"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrNotInRoom        = errors.New("user is not in a room")
	ErrEmptyCredentials = errors.New("nickname and password required")
)

// Error is a classified service failure
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the kind of err, KindInternal for unclassified errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
