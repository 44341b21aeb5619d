package note

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, record *Note) error
	GetByID(ctx context.Context, familyID, noteID string) (*Note, error)
	ListByFamily(ctx context.Context, familyID string, filter ListFilter) ([]Note, error)
	Update(ctx context.Context, record *Note) error
	Delete(ctx context.Context, familyID, noteID string) error
	ReplaceChildren(ctx context.Context, noteID string, childIDs []string) error
	// ChildrenExist reports whether every given child belongs to the family.
	ChildrenExist(ctx context.Context, familyID string, childIDs []string) (bool, error)
	// TagCounts aggregates tag frequencies over the family's notes, optionally
	// narrowed to one child.
	TagCounts(ctx context.Context, familyID, childID string) (map[string]int64, error)
	CountByFamily(ctx context.Context, familyID, childID string) (int64, error)
}
