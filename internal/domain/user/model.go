package user

import "time"

// Profile mirrors the identity provider's user record so the rest of the app
// can join on email without calling out to the auth service.
type Profile struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Email     *string   `gorm:"type:text"`
	Name      *string   `gorm:"type:text"`
	AvatarURL *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
