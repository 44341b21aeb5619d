package drawing

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	drawingdomain "family-journal-go/internal/domain/drawing"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, record *drawingdomain.Drawing) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, familyID, drawingID string) (*drawingdomain.Drawing, error) {
	var record drawingdomain.Drawing
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, drawingID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, drawingdomain.ErrDrawingNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID, childID string) ([]drawingdomain.Drawing, error) {
	query := r.db.WithContext(ctx).Where("family_id = ?", familyID)
	if childID != "" {
		query = query.Where("child_id = ?", childID)
	}

	var records []drawingdomain.Drawing
	if err := query.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) SaveAnalysis(ctx context.Context, drawingID string, analysis datatypes.JSON, analyzedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&drawingdomain.Drawing{}).
		Where("id = ?", drawingID).
		Updates(map[string]any{"analysis": analysis, "analyzed_at": analyzedAt}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, familyID, drawingID string) error {
	result := r.db.WithContext(ctx).Delete(&drawingdomain.Drawing{}, "family_id = ? AND id = ?", familyID, drawingID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return drawingdomain.ErrDrawingNotFound
	}
	return nil
}
