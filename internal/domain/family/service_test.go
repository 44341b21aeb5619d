package family

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeRepo struct {
	families    map[string]*Family
	members     map[string]*FamilyMember
	emails      map[string]string
	invitations map[string]*Invitation
	tokens      map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		families:    make(map[string]*Family),
		members:     make(map[string]*FamilyMember),
		emails:      make(map[string]string),
		invitations: make(map[string]*Invitation),
		tokens:      make(map[string]string),
	}
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetFamilyByUser(ctx context.Context, userID string) (*Family, error) {
	member, ok := r.members[userID]
	if !ok {
		return nil, ErrNoFamily
	}
	familyModel, ok := r.families[member.FamilyID]
	if !ok {
		return nil, ErrNoFamily
	}
	return familyModel, nil
}

func (r *fakeRepo) GetMemberByUser(ctx context.Context, userID string) (*FamilyMember, error) {
	member, ok := r.members[userID]
	if !ok {
		return nil, ErrNoFamily
	}
	return member, nil
}

func (r *fakeRepo) GetMember(ctx context.Context, familyID, userID string) (*FamilyMember, error) {
	member, ok := r.members[userID]
	if !ok || member.FamilyID != familyID {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (r *fakeRepo) ListMembersWithProfiles(ctx context.Context, familyID string) ([]FamilyMemberProfile, error) {
	result := make([]FamilyMemberProfile, 0)
	for userID, member := range r.members {
		if member.FamilyID != familyID {
			continue
		}
		email := r.emails[userID]
		result = append(result, FamilyMemberProfile{
			UserID:   member.UserID,
			Role:     member.Role,
			Label:    member.Label,
			JoinedAt: member.JoinedAt,
			Email:    &email,
		})
	}
	return result, nil
}

func (r *fakeRepo) CreateFamily(ctx context.Context, familyModel *Family) error {
	r.families[familyModel.ID] = familyModel
	return nil
}

func (r *fakeRepo) AddMember(ctx context.Context, member *FamilyMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	r.members[member.UserID] = member
	return nil
}

func (r *fakeRepo) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	familyModel, ok := r.families[familyID]
	if !ok {
		return ErrNoFamily
	}
	familyModel.Name = name
	return nil
}

func (r *fakeRepo) UpdateMemberLabel(ctx context.Context, familyID, userID string, label *string) error {
	member, ok := r.members[userID]
	if !ok || member.FamilyID != familyID {
		return ErrMemberNotFound
	}
	member.Label = label
	return nil
}

func (r *fakeRepo) DeleteFamily(ctx context.Context, familyID string) error {
	delete(r.families, familyID)
	return nil
}

func (r *fakeRepo) DeleteMember(ctx context.Context, familyID, userID string) error {
	member, ok := r.members[userID]
	if ok && member.FamilyID == familyID {
		delete(r.members, userID)
	}
	return nil
}

func (r *fakeRepo) DeleteMembersByFamily(ctx context.Context, familyID string) error {
	for userID, member := range r.members {
		if member.FamilyID == familyID {
			delete(r.members, userID)
		}
	}
	return nil
}

func (r *fakeRepo) CountMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	for _, member := range r.members {
		if member.FamilyID == familyID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) IsUserInFamily(ctx context.Context, userID string) (bool, error) {
	_, ok := r.members[userID]
	return ok, nil
}

func (r *fakeRepo) IsEmailMember(ctx context.Context, familyID, email string) (bool, error) {
	for userID, member := range r.members {
		if member.FamilyID == familyID && strings.EqualFold(r.emails[userID], email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateInvitation(ctx context.Context, invitation *Invitation) error {
	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}
	r.invitations[invitation.ID] = invitation
	r.tokens[invitation.Token] = invitation.ID
	return nil
}

func (r *fakeRepo) GetInvitationByToken(ctx context.Context, token string) (*Invitation, error) {
	id, ok := r.tokens[token]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	invitation := *r.invitations[id]
	return &invitation, nil
}

func (r *fakeRepo) GetInvitationByID(ctx context.Context, id string) (*Invitation, error) {
	invitation, ok := r.invitations[id]
	if !ok {
		return nil, ErrInvitationNotFound
	}
	copied := *invitation
	return &copied, nil
}

func (r *fakeRepo) ListInvitationsByFamily(ctx context.Context, familyID string) ([]Invitation, error) {
	result := make([]Invitation, 0)
	for _, invitation := range r.invitations {
		if invitation.FamilyID == familyID {
			result = append(result, *invitation)
		}
	}
	return result, nil
}

func (r *fakeRepo) HasPendingInvitation(ctx context.Context, familyID, email string) (bool, error) {
	for _, invitation := range r.invitations {
		if invitation.FamilyID == familyID && invitation.Status == InvitationPending && strings.EqualFold(invitation.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ClaimInvitation(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	invitation, ok := r.invitations[id]
	if !ok || invitation.Status != fromStatus {
		return false, nil
	}
	invitation.Status = toStatus
	return true, nil
}

func newTestService(t *testing.T, repo *fakeRepo) *Service {
	t.Helper()
	authz, err := NewAuthorizer()
	if err != nil {
		t.Fatalf("authorizer: %v", err)
	}
	return NewService(repo, authz, "https://app.example.com", 0)
}

func seedFamily(repo *fakeRepo, familyID string) {
	repo.families[familyID] = &Family{ID: familyID, Name: "Test Family"}
}

func seedMember(repo *fakeRepo, familyID, userID, role, email string) {
	repo.members[userID] = &FamilyMember{FamilyID: familyID, UserID: userID, Role: role, JoinedAt: time.Now().UTC()}
	repo.emails[userID] = email
}

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")

	invitation, link, err := svc.CreateInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, "a@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	if invitation.Status != InvitationPending {
		t.Fatalf("status = %q, want pending", invitation.Status)
	}
	if invitation.Token == "" {
		t.Fatal("token is empty")
	}
	if invitation.FamilyID != "fam-1" {
		t.Fatalf("family = %q, want fam-1", invitation.FamilyID)
	}
	want := "https://app.example.com/invite?token=" + invitation.Token
	if link != want {
		t.Fatalf("link = %q, want %q", link, want)
	}
	if invitation.ExpiresAt.Before(time.Now().Add(6 * 24 * time.Hour)) {
		t.Fatalf("expiry %v too soon; want ~7 days out", invitation.ExpiresAt)
	}
}

func TestCreateInvitationGuards(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		seed    func(*fakeRepo)
		actor   Actor
		email   string
		wantErr error
	}{
		{
			name:    "no family",
			seed:    func(*fakeRepo) {},
			actor:   Actor{ID: "stranger", Email: "s@example.com"},
			email:   "a@example.com",
			wantErr: ErrNoFamily,
		},
		{
			name: "member role rejected",
			seed: func(repo *fakeRepo) {
				seedFamily(repo, "fam-1")
				seedMember(repo, "fam-1", "member-1", RoleMember, "m@example.com")
			},
			actor:   Actor{ID: "member-1", Email: "m@example.com"},
			email:   "a@example.com",
			wantErr: ErrInsufficientRole,
		},
		{
			name: "admin role allowed",
			seed: func(repo *fakeRepo) {
				seedFamily(repo, "fam-1")
				seedMember(repo, "fam-1", "admin-1", RoleAdmin, "admin@example.com")
			},
			actor: Actor{ID: "admin-1", Email: "admin@example.com"},
			email: "a@example.com",
		},
		{
			name: "self invite",
			seed: func(repo *fakeRepo) {
				seedFamily(repo, "fam-1")
				seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
			},
			actor:   Actor{ID: "owner-1", Email: "owner@example.com"},
			email:   "Owner@Example.com",
			wantErr: ErrSelfInvite,
		},
		{
			name: "already a member",
			seed: func(repo *fakeRepo) {
				seedFamily(repo, "fam-1")
				seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
				seedMember(repo, "fam-1", "member-1", RoleMember, "taken@example.com")
			},
			actor:   Actor{ID: "owner-1", Email: "owner@example.com"},
			email:   "taken@example.com",
			wantErr: ErrAlreadyMember,
		},
		{
			name: "pending invitation exists",
			seed: func(repo *fakeRepo) {
				seedFamily(repo, "fam-1")
				seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
				repo.invitations["inv-1"] = &Invitation{
					ID: "inv-1", FamilyID: "fam-1", Email: "a@example.com",
					Token: "tok-1", Status: InvitationPending,
				}
				repo.tokens["tok-1"] = "inv-1"
			},
			actor:   Actor{ID: "owner-1", Email: "owner@example.com"},
			email:   "a@example.com",
			wantErr: ErrInvitationExists,
		},
		{
			name: "malformed email",
			seed: func(repo *fakeRepo) {
				seedFamily(repo, "fam-1")
				seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
			},
			actor:   Actor{ID: "owner-1", Email: "owner@example.com"},
			email:   "not an email",
			wantErr: ErrInvalidEmail,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(t, repo)
			tc.seed(repo)

			before := len(repo.invitations)
			_, _, err := svc.CreateInvitation(ctx, tc.actor, tc.email)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if len(repo.invitations) != before {
				t.Fatal("failed invitation must not insert a row")
			}
		})
	}
}

func TestAcceptInvitationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")

	invitation, _, err := svc.CreateInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, "a@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	joined, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, invitation.Token)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if joined.ID != "fam-1" {
		t.Fatalf("joined family = %q, want fam-1", joined.ID)
	}

	member, ok := repo.members["user-a"]
	if !ok {
		t.Fatal("membership row not created")
	}
	if member.Role != RoleMember {
		t.Fatalf("role = %q, want member", member.Role)
	}
	if repo.invitations[invitation.ID].Status != InvitationAccepted {
		t.Fatalf("status = %q, want accepted", repo.invitations[invitation.ID].Status)
	}

	// A consumed token never grants membership again.
	delete(repo.members, "user-a")
	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, invitation.Token); !errors.Is(err, ErrAlreadyAccepted) {
		t.Fatalf("second accept err = %v, want %v", err, ErrAlreadyAccepted)
	}
	if _, ok := repo.members["user-a"]; ok {
		t.Fatal("consumed token must not create a member row")
	}
}

func TestAcceptInvitationWrongRecipient(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")

	invitation, _, err := svc.CreateInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, "a@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-b", Email: "b@example.com"}, invitation.Token); !errors.Is(err, ErrWrongRecipient) {
		t.Fatalf("err = %v, want %v", err, ErrWrongRecipient)
	}
	if _, ok := repo.members["user-b"]; ok {
		t.Fatal("wrong recipient must not create a member row")
	}

	// Email comparison is case-insensitive.
	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "A@Example.COM"}, invitation.Token); err != nil {
		t.Fatalf("case-insensitive accept failed: %v", err)
	}
}

func TestAcceptInvitationLazyExpiry(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	repo.invitations["inv-1"] = &Invitation{
		ID: "inv-1", FamilyID: "fam-1", Email: "a@example.com",
		Token: "tok-1", Status: InvitationPending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	repo.tokens["tok-1"] = "inv-1"

	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, "tok-1"); !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("err = %v, want %v", err, ErrInvitationExpired)
	}
	if repo.invitations["inv-1"].Status != InvitationExpired {
		t.Fatalf("status = %q, want expired (lazy transition)", repo.invitations["inv-1"].Status)
	}

	// Expired is terminal; a second attempt reports the stored status.
	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, "tok-1"); !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("second attempt err = %v, want %v", err, ErrInvitationExpired)
	}
}

func TestAcceptInvitationCancelled(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	repo.invitations["inv-1"] = &Invitation{
		ID: "inv-1", FamilyID: "fam-1", Email: "a@example.com",
		Token: "tok-1", Status: InvitationCancelled,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	repo.tokens["tok-1"] = "inv-1"

	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, "tok-1"); !errors.Is(err, ErrInvitationCancelled) {
		t.Fatalf("err = %v, want %v", err, ErrInvitationCancelled)
	}
}

func TestAcceptInvitationMembershipConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedFamily(repo, "fam-2")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")

	invitation, _, err := svc.CreateInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, "a@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	// Member of a different family can never pick up a second membership.
	seedMember(repo, "fam-2", "user-a", RoleMember, "a@example.com")
	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, invitation.Token); !errors.Is(err, ErrOtherFamily) {
		t.Fatalf("err = %v, want %v", err, ErrOtherFamily)
	}
	if repo.members["user-a"].FamilyID != "fam-2" {
		t.Fatal("membership must be unchanged")
	}
	if repo.invitations[invitation.ID].Status != InvitationPending {
		t.Fatal("invitation must stay pending on the different-family branch")
	}

	// Member of the same family: invitation is closed out, no duplicate row.
	repo.members["user-a"].FamilyID = "fam-1"
	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, invitation.Token); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("err = %v, want %v", err, ErrAlreadyMember)
	}
	if repo.invitations[invitation.ID].Status != InvitationAccepted {
		t.Fatal("same-family accept must consume the invitation")
	}
}

func TestAcceptInvitationInvalidToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeRepo())

	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "u", Email: "u@example.com"}, "no-such-token"); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrInvitationNotFound)
	}
	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "u", Email: "u@example.com"}, "  "); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("blank token err = %v, want %v", err, ErrInvitationNotFound)
	}
}

func TestCancelInvitation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
	seedMember(repo, "fam-1", "member-1", RoleMember, "m@example.com")

	invitation, _, err := svc.CreateInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, "a@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	if err := svc.CancelInvitation(ctx, Actor{ID: "member-1", Email: "m@example.com"}, invitation.ID); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("member cancel err = %v, want %v", err, ErrInsufficientRole)
	}

	if err := svc.CancelInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, invitation.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if repo.invitations[invitation.ID].Status != InvitationCancelled {
		t.Fatalf("status = %q, want cancelled", repo.invitations[invitation.ID].Status)
	}

	// Second cancel is a no-op.
	if err := svc.CancelInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, invitation.ID); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}

	if _, err := svc.AcceptInvitation(ctx, Actor{ID: "user-a", Email: "a@example.com"}, invitation.Token); !errors.Is(err, ErrInvitationCancelled) {
		t.Fatalf("accept cancelled err = %v, want %v", err, ErrInvitationCancelled)
	}
}

func TestCancelInvitationOtherFamily(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedFamily(repo, "fam-2")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
	seedMember(repo, "fam-2", "owner-2", RoleOwner, "other@example.com")

	invitation, _, err := svc.CreateInvitation(ctx, Actor{ID: "owner-1", Email: "owner@example.com"}, "a@example.com")
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	if err := svc.CancelInvitation(ctx, Actor{ID: "owner-2", Email: "other@example.com"}, invitation.ID); !errors.Is(err, ErrInvitationNotFound) {
		t.Fatalf("cross-family cancel err = %v, want %v", err, ErrInvitationNotFound)
	}
}

func TestSetMemberLabel(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
	seedMember(repo, "fam-1", "member-1", RoleMember, "m@example.com")

	label := "Mom"
	if err := svc.SetMemberLabel(ctx, Actor{ID: "member-1"}, "owner-1", &label); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("member set label err = %v, want %v", err, ErrInsufficientRole)
	}

	if err := svc.SetMemberLabel(ctx, Actor{ID: "owner-1"}, "member-1", &label); err != nil {
		t.Fatalf("set label: %v", err)
	}
	if got := repo.members["member-1"].Label; got == nil || *got != "Mom" {
		t.Fatalf("label = %v, want Mom", got)
	}

	blank := "   "
	if err := svc.SetMemberLabel(ctx, Actor{ID: "owner-1"}, "member-1", &blank); err != nil {
		t.Fatalf("clear label: %v", err)
	}
	if repo.members["member-1"].Label != nil {
		t.Fatal("blank label should clear to null")
	}

	if err := svc.SetMemberLabel(ctx, Actor{ID: "owner-1"}, "nobody", &label); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("unknown member err = %v, want %v", err, ErrMemberNotFound)
	}
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
	seedMember(repo, "fam-1", "member-1", RoleMember, "m@example.com")

	if err := svc.RemoveMember(ctx, Actor{ID: "member-1"}, "owner-1"); !errors.Is(err, ErrInsufficientRole) {
		t.Fatalf("err = %v, want %v", err, ErrInsufficientRole)
	}
	if err := svc.RemoveMember(ctx, Actor{ID: "owner-1"}, "owner-1"); !errors.Is(err, ErrCannotRemoveOwner) {
		t.Fatalf("err = %v, want %v", err, ErrCannotRemoveOwner)
	}
	if err := svc.RemoveMember(ctx, Actor{ID: "owner-1"}, "member-1"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if _, ok := repo.members["member-1"]; ok {
		t.Fatal("member row should be gone")
	}
}

func TestLeaveFamily(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	seedFamily(repo, "fam-1")
	seedMember(repo, "fam-1", "owner-1", RoleOwner, "owner@example.com")
	seedMember(repo, "fam-1", "member-1", RoleMember, "m@example.com")

	if err := svc.LeaveFamily(ctx, Actor{ID: "owner-1"}); !errors.Is(err, ErrOwnerMustTransfer) {
		t.Fatalf("owner leave err = %v, want %v", err, ErrOwnerMustTransfer)
	}

	if err := svc.LeaveFamily(ctx, Actor{ID: "member-1"}); err != nil {
		t.Fatalf("member leave: %v", err)
	}

	// Last member standing tears the family down with them.
	if err := svc.LeaveFamily(ctx, Actor{ID: "owner-1"}); err != nil {
		t.Fatalf("owner leave: %v", err)
	}
	if _, ok := repo.families["fam-1"]; ok {
		t.Fatal("empty family should be deleted")
	}
}

func TestCreateFamily(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	created, err := svc.CreateFamily(ctx, Actor{ID: "user-1", Email: "u@example.com"}, "Smiths")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	if repo.members["user-1"].Role != RoleOwner {
		t.Fatal("creator must become owner")
	}
	if repo.members["user-1"].FamilyID != created.ID {
		t.Fatal("owner membership must reference the new family")
	}

	if _, err := svc.CreateFamily(ctx, Actor{ID: "user-1", Email: "u@example.com"}, "Again"); !errors.Is(err, ErrAlreadyInFamily) {
		t.Fatalf("err = %v, want %v", err, ErrAlreadyInFamily)
	}
}
