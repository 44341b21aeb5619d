package family

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	familydomain "family-journal-go/internal/domain/family"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamilyByUser(ctx context.Context, userID string) (*familydomain.Family, error) {
	var family familydomain.Family
	err := r.db.WithContext(ctx).
		Table("families").
		Joins("join family_members on family_members.family_id = families.id").
		Where("family_members.user_id = ?", userID).
		Limit(1).
		First(&family).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, familydomain.ErrNoFamily
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetMemberByUser(ctx context.Context, userID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrNoFamily
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("family_id = ? AND user_id = ?", familyID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembersWithProfiles(ctx context.Context, familyID string) ([]familydomain.FamilyMemberProfile, error) {
	type memberRow struct {
		UserID    string    `gorm:"column:user_id"`
		Role      string    `gorm:"column:role"`
		Label     *string   `gorm:"column:label"`
		JoinedAt  time.Time `gorm:"column:joined_at"`
		Email     *string   `gorm:"column:email"`
		AvatarURL *string   `gorm:"column:avatar_url"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Select("family_members.user_id, family_members.role, family_members.label, family_members.joined_at, user_profiles.email, user_profiles.avatar_url").
		Joins("left join user_profiles on user_profiles.user_id = family_members.user_id").
		Where("family_members.family_id = ?", familyID).
		Order("family_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]familydomain.FamilyMemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, familydomain.FamilyMemberProfile{
			UserID:    row.UserID,
			Role:      row.Role,
			Label:     row.Label,
			JoinedAt:  row.JoinedAt,
			Email:     row.Email,
			AvatarURL: row.AvatarURL,
		})
	}
	return members, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.FamilyMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateFamilyName(ctx context.Context, familyID, name string) error {
	return r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("id = ?", familyID).Update("name", name).Error
}

func (r *PostgresRepository) UpdateMemberLabel(ctx context.Context, familyID, userID string, label *string) error {
	return r.db.WithContext(ctx).Model(&familydomain.FamilyMember{}).
		Where("family_id = ? AND user_id = ?", familyID, userID).
		Update("label", label).Error
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", familyID).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, familyID, userID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.FamilyMember{}, "family_id = ? AND user_id = ?", familyID, userID).Error
}

func (r *PostgresRepository) DeleteMembersByFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Where("family_id = ?", familyID).Delete(&familydomain.FamilyMember{}).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.FamilyMember{}).Where("family_id = ?", familyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IsUserInFamily(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.FamilyMember{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) IsEmailMember(ctx context.Context, familyID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("family_members").
		Joins("join user_profiles on user_profiles.user_id = family_members.user_id").
		Where("family_members.family_id = ? AND lower(user_profiles.email) = lower(?)", familyID, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation *familydomain.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *PostgresRepository) GetInvitationByToken(ctx context.Context, token string) (*familydomain.Invitation, error) {
	var invitation familydomain.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) GetInvitationByID(ctx context.Context, id string) (*familydomain.Invitation, error) {
	var invitation familydomain.Invitation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) ListInvitationsByFamily(ctx context.Context, familyID string) ([]familydomain.Invitation, error) {
	var invitations []familydomain.Invitation
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) HasPendingInvitation(ctx context.Context, familyID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Invitation{}).
		Where("family_id = ? AND lower(email) = lower(?) AND status = ?", familyID, email, familydomain.InvitationPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ClaimInvitation(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&familydomain.Invitation{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
