package services

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuthorization
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is a rejected precondition. Each case has one sentinel value below,
// compare with errors.Is.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// KindOf reports the kind of a service error, ok is false for anything else.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

var ErrPersistence = errors.New("persistence failure")

// identity
var (
	ErrInvalidSession     = newError(KindAuthorization, "invalid_session", "Invalid token")
	ErrInvalidCredentials = newError(KindValidation, "invalid_credentials", "Email or password is incorrect")
	ErrInvalidEmail       = newError(KindValidation, "invalid_email", "Email is not valid")
	ErrEmailTaken         = newError(KindValidation, "email_taken", "Email is already in use")
	ErrPasswordTooShort   = newError(KindValidation, "password_too_short", "Password must be at least 6 characters")
	ErrInvalidName        = newError(KindValidation, "invalid_name", "Names must be between 1 and 50 characters")
	ErrInvalidHandle      = newError(KindValidation, "invalid_handle", "Handle must be 3 to 20 alphanumeric characters")
	ErrHandleTaken        = newError(KindValidation, "handle_taken", "Handle is already in use")
)

// membership
var (
	ErrUnknownChannel     = newError(KindNotFound, "unknown_channel", "Channel does not exist")
	ErrUnknownDm          = newError(KindNotFound, "unknown_dm", "DM does not exist")
	ErrUnknownUser        = newError(KindNotFound, "unknown_user", "User does not exist")
	ErrInvalidChannelName = newError(KindValidation, "invalid_channel_name", "Channel name must be between 1 and 20 characters")
	ErrAlreadyMember      = newError(KindInvariant, "already_member", "User is already a member")
	ErrPrivateChannel     = newError(KindAuthorization, "private_channel", "Channel is private")
	ErrInviterNotMember   = newError(KindAuthorization, "inviter_not_member", "Inviter is not a member of the channel")
	ErrNotMember          = newError(KindAuthorization, "not_member", "User is not a member")
	ErrTargetNotMember    = newError(KindValidation, "target_not_member", "Target user is not a member of the channel")
	ErrAlreadyOwner       = newError(KindInvariant, "already_owner", "User is already an owner")
	ErrNotChannelOwner    = newError(KindAuthorization, "not_channel_owner", "User does not have owner permissions")
	ErrTargetNotOwner     = newError(KindInvariant, "target_not_owner", "Target user is not an owner")
	ErrSoleOwner          = newError(KindInvariant, "sole_owner", "Cannot remove the only owner")
	ErrDuplicateMember    = newError(KindValidation, "duplicate_member", "Duplicate user ids")
	ErrNotDmCreator       = newError(KindAuthorization, "not_dm_creator", "Only the creator can remove a DM")
)

// messaging
var (
	ErrUnknownMessage   = newError(KindNotFound, "unknown_message", "Message does not exist")
	ErrBodyTooShort     = newError(KindValidation, "body_too_short", "Message is empty")
	ErrBodyTooLong      = newError(KindValidation, "body_too_long", "Message is longer than 1000 characters")
	ErrForbidden        = newError(KindAuthorization, "forbidden", "User is neither the author nor an owner")
	ErrStartOutOfRange  = newError(KindValidation, "start_out_of_range", "Start is greater than the number of messages")
	ErrNegativeDuration = newError(KindValidation, "negative_duration", "Standup length cannot be negative")
	ErrDurationTooLong  = newError(KindValidation, "duration_too_long", "Standup length is too long")
	ErrStandupActive    = newError(KindInvariant, "standup_active", "A standup is already running")
	ErrStandupNotActive = newError(KindInvariant, "standup_not_active", "No standup is running")
)

// administration
var (
	ErrNotGlobalOwner      = newError(KindAuthorization, "not_global_owner", "User is not a global owner")
	ErrSoleGlobalOwner     = newError(KindInvariant, "sole_global_owner", "Cannot remove or demote the only global owner")
	ErrInvalidPermission   = newError(KindValidation, "invalid_permission", "Permission id is not valid")
	ErrPermissionUnchanged = newError(KindInvariant, "permission_unchanged", "User already has this permission")
)
