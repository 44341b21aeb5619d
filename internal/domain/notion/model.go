package notion

import "time"

// Connection holds the OAuth token a user granted for their Notion workspace.
// One connection per user.
type Connection struct {
	UserID        string  `gorm:"primaryKey" json:"user_id"`
	AccessToken   string  `gorm:"not null" json:"-"`
	WorkspaceID   string  `json:"workspace_id"`
	WorkspaceName string  `json:"workspace_name"`
	BotID         string  `json:"bot_id"`
	ParentPageID  *string `json:"parent_page_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Connection) TableName() string {
	return "notion_connections"
}

// OAuthState is a short-lived single-use token that binds an authorization
// callback back to the user who started the flow.
type OAuthState struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	UserID    string    `gorm:"not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (OAuthState) TableName() string {
	return "notion_oauth_states"
}

// SaveInput is a journal entry to export as a Notion page.
type SaveInput struct {
	Transcript      string   `json:"transcript"`
	AudioURL        string   `json:"audio_url"`
	Children        []string `json:"children"`
	Tags            []string `json:"tags"`
	Sentiment       string   `json:"sentiment"`
	DurationSeconds int      `json:"duration_seconds"`
	Location        string   `json:"location"`
}

// SaveResult points at the page created in the user's workspace.
type SaveResult struct {
	PageID string `json:"page_id"`
	URL    string `json:"url"`
}
