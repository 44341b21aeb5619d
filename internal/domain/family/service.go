package family

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultInvitationTTL = 7 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	repo          Repository
	authz         *Authorizer
	baseURL       string
	invitationTTL time.Duration
	now           func() time.Time
}

func NewService(repo Repository, authz *Authorizer, baseURL string, invitationTTL time.Duration) *Service {
	if invitationTTL <= 0 {
		invitationTTL = defaultInvitationTTL
	}
	return &Service{
		repo:          repo,
		authz:         authz,
		baseURL:       strings.TrimRight(baseURL, "/"),
		invitationTTL: invitationTTL,
		now:           time.Now,
	}
}

func (s *Service) GetFamilyByUser(ctx context.Context, userID string) (*Family, error) {
	return s.repo.GetFamilyByUser(ctx, userID)
}

func (s *Service) CreateFamily(ctx context.Context, actor Actor, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		inFamily, err := tx.IsUserInFamily(ctx, actor.ID)
		if err != nil {
			return err
		}
		if inFamily {
			return ErrAlreadyInFamily
		}

		familyModel := Family{
			ID:   uuid.NewString(),
			Name: name,
		}
		if err := tx.CreateFamily(ctx, &familyModel); err != nil {
			return err
		}

		member := FamilyMember{
			FamilyID: familyModel.ID,
			UserID:   actor.ID,
			Role:     RoleOwner,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = familyModel
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateInvitation issues a pending invitation for the given email and returns
// it together with the sharable link. Guards run in a fixed order, each one a
// terminal failure. No email is dispatched; the link is shared out-of-band.
func (s *Service) CreateInvitation(ctx context.Context, actor Actor, email string) (*Invitation, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}

	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return nil, "", err
	}

	if !s.authz.Allow(member.Role, OpCreateInvitation) {
		return nil, "", ErrInsufficientRole
	}

	if strings.EqualFold(email, actor.Email) {
		return nil, "", ErrSelfInvite
	}

	isMember, err := s.repo.IsEmailMember(ctx, member.FamilyID, email)
	if err != nil {
		return nil, "", err
	}
	if isMember {
		return nil, "", ErrAlreadyMember
	}

	pending, err := s.repo.HasPendingInvitation(ctx, member.FamilyID, email)
	if err != nil {
		return nil, "", err
	}
	if pending {
		return nil, "", ErrInvitationExists
	}

	invitation := Invitation{
		ID:        uuid.NewString(),
		FamilyID:  member.FamilyID,
		InvitedBy: actor.ID,
		Email:     email,
		Token:     uuid.NewString(),
		Status:    InvitationPending,
		ExpiresAt: s.now().Add(s.invitationTTL),
	}
	if err := s.repo.CreateInvitation(ctx, &invitation); err != nil {
		return nil, "", err
	}

	return &invitation, s.InvitationLink(invitation.Token), nil
}

func (s *Service) InvitationLink(token string) string {
	return s.baseURL + "/invite?token=" + token
}

// AcceptInvitation redeems a token for the authenticated actor. The membership
// insert and the pending->accepted transition happen inside one transaction,
// with the transition itself as a compare-and-swap so two concurrent redeems
// cannot both succeed.
func (s *Service) AcceptInvitation(ctx context.Context, actor Actor, token string) (*Family, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvitationNotFound
	}

	invitation, err := s.repo.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch invitation.Status {
	case InvitationAccepted:
		return nil, ErrAlreadyAccepted
	case InvitationCancelled:
		return nil, ErrInvitationCancelled
	case InvitationExpired:
		return nil, ErrInvitationExpired
	}

	if s.now().After(invitation.ExpiresAt) {
		// Lazy transition: expiry is only written when someone attempts to
		// redeem past the deadline.
		if _, err := s.repo.ClaimInvitation(ctx, invitation.ID, InvitationPending, InvitationExpired); err != nil {
			return nil, err
		}
		return nil, ErrInvitationExpired
	}

	// The token itself carries no recipient binding; the stored email is the
	// sole defense against a leaked link being redeemed by another account.
	if !strings.EqualFold(invitation.Email, actor.Email) {
		return nil, ErrWrongRecipient
	}

	existing, err := s.repo.GetMemberByUser(ctx, actor.ID)
	switch {
	case err == nil:
		if existing.FamilyID == invitation.FamilyID {
			// Membership already exists; close out the invitation so the token
			// cannot be redeemed again.
			if _, err := s.repo.ClaimInvitation(ctx, invitation.ID, InvitationPending, InvitationAccepted); err != nil {
				return nil, err
			}
			return nil, ErrAlreadyMember
		}
		return nil, ErrOtherFamily
	case !errors.Is(err, ErrNoFamily):
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		claimed, err := tx.ClaimInvitation(ctx, invitation.ID, InvitationPending, InvitationAccepted)
		if err != nil {
			return err
		}
		if !claimed {
			return s.invitationConflict(ctx, tx, token)
		}

		inFamily, err := tx.IsUserInFamily(ctx, actor.ID)
		if err != nil {
			return err
		}
		if inFamily {
			return ErrAlreadyMember
		}

		return tx.AddMember(ctx, &FamilyMember{
			FamilyID: invitation.FamilyID,
			UserID:   actor.ID,
			Role:     RoleMember,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetFamilyByUser(ctx, actor.ID)
}

// invitationConflict re-reads a token that lost the claim race and maps its
// current status to the matching terminal error.
func (s *Service) invitationConflict(ctx context.Context, tx Repository, token string) error {
	current, err := tx.GetInvitationByToken(ctx, token)
	if err != nil {
		return err
	}
	switch current.Status {
	case InvitationCancelled:
		return ErrInvitationCancelled
	case InvitationExpired:
		return ErrInvitationExpired
	default:
		return ErrAlreadyAccepted
	}
}

// CancelInvitation is idempotent: only a pending invitation transitions, a
// second cancel is a no-op.
func (s *Service) CancelInvitation(ctx context.Context, actor Actor, invitationID string) error {
	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return err
	}

	invitation, err := s.repo.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation.FamilyID != member.FamilyID {
		return ErrInvitationNotFound
	}

	if !s.authz.Allow(member.Role, OpCancelInvitation) {
		return ErrInsufficientRole
	}

	_, err = s.repo.ClaimInvitation(ctx, invitation.ID, InvitationPending, InvitationCancelled)
	return err
}

func (s *Service) ListInvitations(ctx context.Context, actor Actor) ([]Invitation, error) {
	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !s.authz.Allow(member.Role, OpListInvitations) {
		return nil, ErrInsufficientRole
	}

	return s.repo.ListInvitationsByFamily(ctx, member.FamilyID)
}

// SetMemberLabel sets or clears the display label ("Mom", "Dad") of a member.
func (s *Service) SetMemberLabel(ctx context.Context, actor Actor, memberUserID string, label *string) error {
	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return err
	}

	if !s.authz.Allow(member.Role, OpSetMemberLabel) {
		return ErrInsufficientRole
	}

	if _, err := s.repo.GetMember(ctx, member.FamilyID, memberUserID); err != nil {
		return err
	}

	if label != nil {
		trimmed := strings.TrimSpace(*label)
		if trimmed == "" {
			label = nil
		} else {
			label = &trimmed
		}
	}

	return s.repo.UpdateMemberLabel(ctx, member.FamilyID, memberUserID, label)
}

func (s *Service) UpdateFamilyName(ctx context.Context, actor Actor, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if !s.authz.Allow(member.Role, OpRenameFamily) {
		return nil, ErrInsufficientRole
	}

	if err := s.repo.UpdateFamilyName(ctx, member.FamilyID, name); err != nil {
		return nil, err
	}

	return s.repo.GetFamilyByUser(ctx, actor.ID)
}

func (s *Service) ListMembersWithProfiles(ctx context.Context, actor Actor) ([]FamilyMemberProfile, error) {
	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMembersWithProfiles(ctx, member.FamilyID)
}

func (s *Service) LeaveFamily(ctx context.Context, actor Actor) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMemberByUser(ctx, actor.ID)
		if err != nil {
			return err
		}

		if member.Role == RoleOwner {
			count, err := tx.CountMembers(ctx, member.FamilyID)
			if err != nil {
				return err
			}
			if count > 1 {
				return ErrOwnerMustTransfer
			}

			if err := tx.DeleteMembersByFamily(ctx, member.FamilyID); err != nil {
				return err
			}
			return tx.DeleteFamily(ctx, member.FamilyID)
		}

		return tx.DeleteMember(ctx, member.FamilyID, actor.ID)
	})
}

func (s *Service) RemoveMember(ctx context.Context, actor Actor, memberUserID string) error {
	member, err := s.memberOf(ctx, actor.ID)
	if err != nil {
		return err
	}

	if !s.authz.Allow(member.Role, OpRemoveMember) {
		return ErrInsufficientRole
	}

	target, err := s.repo.GetMember(ctx, member.FamilyID, memberUserID)
	if err != nil {
		return err
	}
	if target.Role == RoleOwner {
		return ErrCannotRemoveOwner
	}

	return s.repo.DeleteMember(ctx, member.FamilyID, memberUserID)
}

// Membership returns the caller's membership record, or ErrNoFamily.
func (s *Service) Membership(ctx context.Context, userID string) (*FamilyMember, error) {
	return s.memberOf(ctx, userID)
}

func (s *Service) memberOf(ctx context.Context, userID string) (*FamilyMember, error) {
	member, err := s.repo.GetMemberByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return member, nil
}
