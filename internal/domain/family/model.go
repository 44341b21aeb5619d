package family

import "time"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Invitation statuses. Everything except pending is terminal.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationExpired   = "expired"
	InvitationCancelled = "cancelled"
)

type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type FamilyMember struct {
	FamilyID string    `gorm:"type:uuid;primaryKey"`
	UserID   string    `gorm:"primaryKey;uniqueIndex"`
	Role     string    `gorm:"type:varchar(16);not null"`
	Label    *string   `gorm:"type:text"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
}

type FamilyMemberProfile struct {
	UserID    string
	Role      string
	Label     *string
	JoinedAt  time.Time
	Email     *string
	AvatarURL *string
}

// Invitation is a single-use, email-bound credential for joining a family.
type Invitation struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;not null;index"`
	InvitedBy string    `gorm:"type:uuid;not null"`
	Email     string    `gorm:"not null;index"`
	Token     string    `gorm:"type:uuid;not null;uniqueIndex"`
	Status    string    `gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
}

func (i *Invitation) TableName() string {
	return "family_invitations"
}

// Actor is the authenticated identity threaded into every operation.
type Actor struct {
	ID    string
	Email string
}
