package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetFamilyByUser(ctx context.Context, userID string) (*Family, error)
	GetMemberByUser(ctx context.Context, userID string) (*FamilyMember, error)
	GetMember(ctx context.Context, familyID, userID string) (*FamilyMember, error)
	ListMembersWithProfiles(ctx context.Context, familyID string) ([]FamilyMemberProfile, error)
	CreateFamily(ctx context.Context, family *Family) error
	AddMember(ctx context.Context, member *FamilyMember) error
	UpdateFamilyName(ctx context.Context, familyID, name string) error
	UpdateMemberLabel(ctx context.Context, familyID, userID string, label *string) error
	DeleteFamily(ctx context.Context, familyID string) error
	DeleteMember(ctx context.Context, familyID, userID string) error
	DeleteMembersByFamily(ctx context.Context, familyID string) error
	CountMembers(ctx context.Context, familyID string) (int64, error)
	IsUserInFamily(ctx context.Context, userID string) (bool, error)
	IsEmailMember(ctx context.Context, familyID, email string) (bool, error)

	CreateInvitation(ctx context.Context, invitation *Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (*Invitation, error)
	GetInvitationByID(ctx context.Context, id string) (*Invitation, error)
	ListInvitationsByFamily(ctx context.Context, familyID string) ([]Invitation, error)
	HasPendingInvitation(ctx context.Context, familyID, email string) (bool, error)
	// ClaimInvitation flips status from one value to another and reports
	// whether this call performed the transition. The compare-and-swap is what
	// keeps invitation tokens single-use under concurrent redemption.
	ClaimInvitation(ctx context.Context, id, fromStatus, toStatus string) (bool, error)
}
