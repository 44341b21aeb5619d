package child

import "time"

type Child struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Birthdate time.Time `gorm:"type:date;not null"`
	PhotoURL  *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Child) TableName() string {
	return "children"
}

type CreateInput struct {
	Name      string
	Birthdate time.Time
	PhotoURL  *string
}

type UpdateInput struct {
	Name      *string
	Birthdate *time.Time
	PhotoURL  *string
	ClearPhoto bool
}
