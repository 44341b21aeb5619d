package insights

import (
	"context"

	"gorm.io/gorm"

	insightsdomain "family-journal-go/internal/domain/insights"
)

// PostgresRepository reads the notes and children tables directly; insights
// own no tables of their own.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CountNotes(ctx context.Context, familyID, childID string) (int64, error) {
	query := r.db.WithContext(ctx).Table("notes").Where("notes.family_id = ?", familyID)
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

func (r *PostgresRepository) TopTags(ctx context.Context, familyID, childID string, limit int) ([]insightsdomain.TagCount, error) {
	query := r.db.WithContext(ctx).
		Table("notes").
		Select("jsonb_array_elements_text(notes.tags) as tag, count(*) as count").
		Where("notes.family_id = ?", familyID)
	if childID != "" {
		query = query.
			Joins("join note_children on note_children.note_id = notes.id").
			Where("note_children.child_id = ?", childID)
	}

	var tags []insightsdomain.TagCount
	if err := query.
		Group("tag").
		Order("count desc").
		Limit(limit).
		Scan(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *PostgresRepository) NotesByChild(ctx context.Context, familyID, childID string, perChild int) ([]insightsdomain.ChildNotes, error) {
	type childRow struct {
		ID   string `gorm:"column:id"`
		Name string `gorm:"column:name"`
	}

	childQuery := r.db.WithContext(ctx).
		Table("children").
		Select("id, name").
		Where("family_id = ?", familyID).
		Order("birthdate asc")
	if childID != "" {
		childQuery = childQuery.Where("id = ?", childID)
	}

	var children []childRow
	if err := childQuery.Scan(&children).Error; err != nil {
		return nil, err
	}

	result := make([]insightsdomain.ChildNotes, 0, len(children))
	for _, c := range children {
		var transcripts []string
		if err := r.db.WithContext(ctx).
			Table("notes").
			Joins("join note_children on note_children.note_id = notes.id").
			Where("notes.family_id = ? AND note_children.child_id = ?", familyID, c.ID).
			Order("notes.created_at desc").
			Limit(perChild).
			Pluck("notes.transcript", &transcripts).Error; err != nil {
			return nil, err
		}
		if len(transcripts) == 0 {
			continue
		}
		result = append(result, insightsdomain.ChildNotes{
			ChildID:     c.ID,
			ChildName:   c.Name,
			Transcripts: transcripts,
		})
	}
	return result, nil
}
