package note

import (
	"context"
	"errors"

	"gorm.io/gorm"

	notedomain "family-journal-go/internal/domain/note"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(notedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, record *notedomain.Note) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, familyID, noteID string) (*notedomain.Note, error) {
	var record notedomain.Note
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, noteID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notedomain.ErrNoteNotFound
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListByFamily(ctx context.Context, familyID string, filter notedomain.ListFilter) ([]notedomain.Note, error) {
	query := r.db.WithContext(ctx).Model(&notedomain.Note{}).Where("notes.family_id = ?", familyID)

	if filter.ChildID != "" {
		query = query.
			Joins("join note_children on note_children.note_id = notes.id").
			Where("note_children.child_id = ?", filter.ChildID)
	}
	if filter.Tag != "" {
		query = query.Where("notes.tags @> ?", `["`+filter.Tag+`"]`)
	}
	if !filter.From.IsZero() {
		query = query.Where("notes.created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("notes.created_at <= ?", filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []notedomain.Note
	if err := query.Order("notes.created_at desc").Find(&records).Error; err != nil {
		return nil, err
	}

	for i := range records {
		if err := r.loadChildren(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *PostgresRepository) Update(ctx context.Context, record *notedomain.Note) error {
	result := r.db.WithContext(ctx).Model(&notedomain.Note{}).
		Where("family_id = ? AND id = ?", record.FamilyID, record.ID).
		Updates(map[string]any{
			"transcript": record.Transcript,
			"summary":    record.Summary,
			"sentiment":  record.Sentiment,
			"tags":       record.Tags,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notedomain.ErrNoteNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, familyID, noteID string) error {
	result := r.db.WithContext(ctx).Delete(&notedomain.Note{}, "family_id = ? AND id = ?", familyID, noteID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notedomain.ErrNoteNotFound
	}
	return nil
}

func (r *PostgresRepository) ReplaceChildren(ctx context.Context, noteID string, childIDs []string) error {
	if err := r.db.WithContext(ctx).Where("note_id = ?", noteID).Delete(&notedomain.NoteChild{}).Error; err != nil {
		return err
	}
	if len(childIDs) == 0 {
		return nil
	}

	links := make([]notedomain.NoteChild, 0, len(childIDs))
	for _, childID := range childIDs {
		links = append(links, notedomain.NoteChild{NoteID: noteID, ChildID: childID})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *PostgresRepository) ChildrenExist(ctx context.Context, familyID string, childIDs []string) (bool, error) {
	if len(childIDs) == 0 {
		return true, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table("children").
		Where("family_id = ? AND id IN ?", familyID, childIDs).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == int64(len(childIDs)), nil
}

func (r *PostgresRepository) TagCounts(ctx context.Context, familyID, childID string) (map[string]int64, error) {
	type tagRow struct {
		Tag   string `gorm:"column:tag"`
		Count int64  `gorm:"column:count"`
	}

	query := r.db.WithContext(ctx).
		Table("notes").
		Select("jsonb_array_elements_text(notes.tags) as tag, count(*) as count").
		Where("notes.family_id = ?", familyID)
	if childID != "" {
		query = query.
			Joins("join note_children on note_children.note_id = notes.id").
			Where("note_children.child_id = ?", childID)
	}

	var rows []tagRow
	if err := query.Group("tag").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Tag] = row.Count
	}
	return counts, nil
}

func (r *PostgresRepository) CountByFamily(ctx context.Context, familyID, childID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&notedomain.Note{}).Where("notes.family_id = ?", familyID)
	if childID != "" {
		query = query.
			Joins("join note_children on note_children.note_id = notes.id").
			Where("note_children.child_id = ?", childID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) loadChildren(ctx context.Context, record *notedomain.Note) error {
	var childIDs []string
	if err := r.db.WithContext(ctx).
		Table("note_children").
		Where("note_id = ?", record.ID).
		Order("child_id asc").
		Pluck("child_id", &childIDs).Error; err != nil {
		return err
	}
	record.ChildIDs = childIDs
	return nil
}
