package note

import (
	"time"

	"gorm.io/datatypes"
)

// Sentiments the client may attach to an entry.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Note is one journal entry: a transcribed voice recording about one or more
// children, plus whatever metadata the capture flow attached.
type Note struct {
	ID              string                     `gorm:"type:uuid;primaryKey"`
	FamilyID        string                     `gorm:"type:uuid;not null;index"`
	AuthorID        string                     `gorm:"type:uuid;not null"`
	Transcript      string                     `gorm:"type:text;not null"`
	Summary         *string                    `gorm:"type:text"`
	AudioURL        *string                    `gorm:"type:text"`
	DurationSeconds int                        `gorm:"not null;default:0"`
	Location        *string                    `gorm:"type:text"`
	Sentiment       *string                    `gorm:"type:varchar(16)"`
	Tags            datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	CreatedAt       time.Time                  `gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time                  `gorm:"autoUpdateTime"`

	ChildIDs []string `gorm:"-"`
}

// NoteChild links an entry to a child it mentions.
type NoteChild struct {
	NoteID  string `gorm:"type:uuid;primaryKey"`
	ChildID string `gorm:"type:uuid;primaryKey;index"`
}

func (NoteChild) TableName() string {
	return "note_children"
}

type CreateInput struct {
	AuthorID        string
	Transcript      string
	Summary         *string
	AudioURL        *string
	DurationSeconds int
	Location        *string
	Sentiment       *string
	Tags            []string
	ChildIDs        []string
}

type UpdateInput struct {
	Transcript *string
	Summary    *string
	Sentiment  *string
	Tags       []string
	ChildIDs   []string
}

type ListFilter struct {
	ChildID string
	Tag     string
	From    time.Time
	To      time.Time
	Limit   int
}
