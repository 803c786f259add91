package domain

import "errors"

// Store error types

var (
	// ErrMissingKey indicates a store call without the team or channel it is scoped by
	ErrMissingKey = errors.New("must specify team id and channel id")

	// ErrInvalidIdentity indicates a user lookup with none of the accepted identity shapes
	ErrInvalidIdentity = errors.New("object must contain team id and user id properties")

	// ErrMissingID indicates a save without a primary key
	ErrMissingID = errors.New("no id specified")

	// ErrNoSuchUser indicates a user record that is expected to exist but does not
	ErrNoSuchUser = errors.New("no such user")

	// ErrInvalidPath indicates a document path the store cannot address
	ErrInvalidPath = errors.New("invalid document path")
)

// Platform and dialogue error types

var (
	// ErrPlatformCall wraps every failure returned by the chat platform
	ErrPlatformCall = errors.New("platform call failed")

	// ErrConversationBusy indicates another dialogue is already waiting on the same reply key
	ErrConversationBusy = errors.New("conversation already awaiting a reply")

	// ErrDialogueTimeout indicates no reply arrived within the configured idle timeout
	ErrDialogueTimeout = errors.New("dialogue idle timeout")
)
