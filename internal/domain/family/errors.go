package family

import "errors"

var (
	ErrNoFamily            = errors.New("no family found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrAlreadyInFamily     = errors.New("already in family")
	ErrInsufficientRole    = errors.New("insufficient permission")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrSelfInvite          = errors.New("cannot invite self")
	ErrAlreadyMember       = errors.New("already a member")
	ErrInvitationExists    = errors.New("invitation already sent")
	ErrInvitationNotFound  = errors.New("invalid invitation token")
	ErrAlreadyAccepted     = errors.New("invitation already accepted")
	ErrInvitationExpired   = errors.New("invitation expired")
	ErrInvitationCancelled = errors.New("invitation cancelled")
	ErrWrongRecipient      = errors.New("invitation was sent to a different email")
	ErrOtherFamily         = errors.New("must leave current family first")
	ErrCannotRemoveOwner   = errors.New("cannot remove owner")
	ErrOwnerMustTransfer   = errors.New("owner must transfer ownership before leaving")
)
