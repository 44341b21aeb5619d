package drawing

import (
	"time"

	"gorm.io/datatypes"
)

type Drawing struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	FamilyID   string          `gorm:"type:uuid;not null;index"`
	ChildID    string          `gorm:"type:uuid;not null;index"`
	UploadedBy string          `gorm:"type:uuid;not null"`
	ImageURL   string          `gorm:"type:text;not null"`
	Title      *string         `gorm:"type:text"`
	Analysis   *datatypes.JSON `gorm:"type:jsonb"`
	AnalyzedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (Drawing) TableName() string {
	return "drawings"
}

// Analysis is the fixed response schema the analyze operation returns.
type Analysis struct {
	Emotional     string `json:"emotional"`
	Personality   string `json:"personality"`
	Developmental string `json:"developmental"`
	Creativity    string `json:"creativity"`
	Summary       string `json:"summary"`
}

type CreateInput struct {
	ChildID    string
	UploadedBy string
	ImageURL   string
	Title      *string
}

type AnalyzeInput struct {
	// DrawingID is optional; when set the analysis is persisted on the row.
	DrawingID string
	ImageURL  string
	ChildName string
	Language  string
}
