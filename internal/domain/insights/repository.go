package insights

import "context"

type Repository interface {
	// CountNotes counts the family's notes, optionally narrowed to one child.
	CountNotes(ctx context.Context, familyID, childID string) (int64, error)
	// TopTags returns tag frequencies sorted by count descending.
	TopTags(ctx context.Context, familyID, childID string, limit int) ([]TagCount, error)
	// NotesByChild returns each child of the family (or just the given one)
	// with their most recent transcripts, newest first.
	NotesByChild(ctx context.Context, familyID, childID string, perChild int) ([]ChildNotes, error)
}
