package child

import (
	"context"
	"errors"

	"gorm.io/gorm"

	childdomain "family-journal-go/internal/domain/child"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *childdomain.Child) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, familyID, childID string) (*childdomain.Child, error) {
	var record childdomain.Child
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, childID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, childdomain.ErrChildNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string) ([]childdomain.Child, error) {
	var records []childdomain.Child
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("birthdate asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) Update(ctx context.Context, record *childdomain.Child) error {
	result := r.db.WithContext(ctx).Model(&childdomain.Child{}).
		Where("family_id = ? AND id = ?", record.FamilyID, record.ID).
		Updates(map[string]any{
			"name":      record.Name,
			"birthdate": record.Birthdate,
			"photo_url": record.PhotoURL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return childdomain.ErrChildNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, familyID, childID string) error {
	result := r.db.WithContext(ctx).Delete(&childdomain.Child{}, "family_id = ? AND id = ?", familyID, childID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return childdomain.ErrChildNotFound
	}
	return nil
}

func (r *PostgresRepository) ExistsInFamily(ctx context.Context, familyID string, childIDs []string) (bool, error) {
	if len(childIDs) == 0 {
		return true, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&childdomain.Child{}).
		Where("family_id = ? AND id IN ?", familyID, childIDs).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(childIDs)), nil
}
