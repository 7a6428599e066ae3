package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrBanned             = errors.New("account banned")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrInvalidUsername    = errors.New("username must be 3-30 characters of letters, digits or underscore")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrSelfAction         = errors.New("cannot perform this action on yourself")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrRequestAlreadySent = errors.New("friend request already sent")
	ErrNoPendingRequest   = errors.New("no friend request from this user")

	ErrUnknownProvider = errors.New("unknown playlist provider")
)
