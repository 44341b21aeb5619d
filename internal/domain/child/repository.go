package child

import "context"

type Repository interface {
	Create(ctx context.Context, record *Child) error
	GetByID(ctx context.Context, familyID, childID string) (*Child, error)
	ListByFamily(ctx context.Context, familyID string) ([]Child, error)
	Update(ctx context.Context, record *Child) error
	Delete(ctx context.Context, familyID, childID string) error
	ExistsInFamily(ctx context.Context, familyID string, childIDs []string) (bool, error)
}
