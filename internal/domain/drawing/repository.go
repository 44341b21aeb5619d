package drawing

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

type Repository interface {
	Create(ctx context.Context, record *Drawing) error
	GetByID(ctx context.Context, familyID, drawingID string) (*Drawing, error)
	ListByFamily(ctx context.Context, familyID, childID string) ([]Drawing, error)
	SaveAnalysis(ctx context.Context, drawingID string, analysis datatypes.JSON, analyzedAt time.Time) error
	Delete(ctx context.Context, familyID, drawingID string) error
}
