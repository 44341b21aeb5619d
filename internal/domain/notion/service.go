package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const defaultStateTTL = 10 * time.Minute

// TokenExchanger swaps an authorization code for an access token.
// *oauth2.Config satisfies it through exchangerFunc.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

type exchangerFunc func(ctx context.Context, code string) (*oauth2.Token, error)

func (f exchangerFunc) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return f(ctx, code)
}

// PageCreator is the slice of the Notion API the export flow uses.
type PageCreator interface {
	FindParentPage(ctx context.Context, accessToken string) (string, error)
	CreatePage(ctx context.Context, accessToken, parentPageID, title string, blocks []map[string]any) (pageID, pageURL string, err error)
}

type Service struct {
	repo      Repository
	oauth     *oauth2.Config
	exchanger TokenExchanger
	pages     PageCreator
	stateTTL  time.Duration

	now func() time.Time
}

// Config carries the OAuth application credentials registered with Notion.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	StateTTL     time.Duration
}

func NewService(repo Repository, cfg Config, pages PageCreator) *Service {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = "https://api.notion.com/v1/oauth/authorize"
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = "https://api.notion.com/v1/oauth/token"
	}
	stateTTL := cfg.StateTTL
	if stateTTL <= 0 {
		stateTTL = defaultStateTTL
	}

	s := &Service{
		repo: repo,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
				// Notion rejects credentials in the request body.
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		pages:    pages,
		stateTTL: stateTTL,
		now:      time.Now,
	}
	s.exchanger = exchangerFunc(func(ctx context.Context, code string) (*oauth2.Token, error) {
		return s.oauth.Exchange(ctx, code)
	})
	return s
}

func (s *Service) configured() bool {
	return s.oauth.ClientID != "" && s.oauth.ClientSecret != ""
}

// AuthURL creates a single-use state token for the user and returns the
// Notion consent URL to redirect them to, along with the token itself.
func (s *Service) AuthURL(ctx context.Context, userID string) (string, string, error) {
	if !s.configured() {
		return "", "", ErrNotConfigured
	}

	now := s.now()
	state := &OAuthState{
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.stateTTL),
	}
	if err := s.repo.CreateState(ctx, state); err != nil {
		return "", "", fmt.Errorf("create oauth state: %w", err)
	}

	// Opportunistic cleanup, failures are harmless.
	_ = s.repo.DeleteExpiredStates(ctx)

	return s.oauth.AuthCodeURL(state.Token, oauth2.SetAuthURLParam("owner", "user")), state.Token, nil
}

// HandleCallback redeems the state token, exchanges the authorization code
// and stores the resulting workspace connection.
func (s *Service) HandleCallback(ctx context.Context, code, stateToken string) error {
	if !s.configured() {
		return ErrNotConfigured
	}
	if code == "" || stateToken == "" {
		return ErrStateNotFound
	}

	state, err := s.repo.TakeState(ctx, stateToken)
	if err != nil {
		return err
	}
	if s.now().After(state.ExpiresAt) {
		return ErrStateExpired
	}

	token, err := s.exchanger.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	conn := &Connection{
		UserID:      state.UserID,
		AccessToken: token.AccessToken,
	}
	if v, ok := token.Extra("workspace_id").(string); ok {
		conn.WorkspaceID = v
	}
	if v, ok := token.Extra("workspace_name").(string); ok {
		conn.WorkspaceName = v
	}
	if v, ok := token.Extra("bot_id").(string); ok {
		conn.BotID = v
	}

	if err := s.repo.UpsertConnection(ctx, conn); err != nil {
		return fmt.Errorf("save connection: %w", err)
	}
	return nil
}

// Status reports whether the user has a workspace connected.
func (s *Service) Status(ctx context.Context, userID string) (*Connection, error) {
	conn, err := s.repo.GetConnection(ctx, userID)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// SaveEntry exports a journal entry as a page in the user's workspace.
func (s *Service) SaveEntry(ctx context.Context, userID string, input SaveInput) (*SaveResult, error) {
	transcript := strings.TrimSpace(input.Transcript)
	if transcript == "" {
		return nil, ErrTranscriptRequired
	}

	conn, err := s.repo.GetConnection(ctx, userID)
	if err != nil {
		return nil, err
	}

	parentID, err := s.parentPage(ctx, conn)
	if err != nil {
		return nil, err
	}

	title := entryTitle(transcript, s.now())
	blocks := entryBlocks(transcript, input)

	pageID, pageURL, err := s.pages.CreatePage(ctx, conn.AccessToken, parentID, title, blocks)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &SaveResult{PageID: pageID, URL: pageURL}, nil
}

// Disconnect drops the stored connection. Removing an absent connection is
// not an error.
func (s *Service) Disconnect(ctx context.Context, userID string) error {
	return s.repo.DeleteConnection(ctx, userID)
}

func (s *Service) parentPage(ctx context.Context, conn *Connection) (string, error) {
	if conn.ParentPageID != nil && *conn.ParentPageID != "" {
		return *conn.ParentPageID, nil
	}

	pageID, err := s.pages.FindParentPage(ctx, conn.AccessToken)
	if err != nil {
		return "", fmt.Errorf("find parent page: %w", err)
	}
	if err := s.repo.SetParentPage(ctx, conn.UserID, pageID); err != nil {
		return "", fmt.Errorf("save parent page: %w", err)
	}
	return pageID, nil
}

func entryTitle(transcript string, now time.Time) string {
	title := transcript
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:60]) + "…"
	}
	return now.Format("Jan 2, 2006") + " · " + title
}

func entryBlocks(transcript string, input SaveInput) []map[string]any {
	blocks := []map[string]any{
		headingBlock("Entry"),
		paragraphBlock(transcript),
	}

	if len(input.Children) > 0 {
		blocks = append(blocks, headingBlock("Children"))
		for _, name := range input.Children {
			blocks = append(blocks, bulletBlock(name))
		}
	}
	if len(input.Tags) > 0 {
		blocks = append(blocks, headingBlock("Tags"))
		for _, tag := range input.Tags {
			blocks = append(blocks, bulletBlock("#"+strings.TrimPrefix(tag, "#")))
		}
	}

	var details []string
	if input.Sentiment != "" {
		details = append(details, "Sentiment: "+input.Sentiment)
	}
	if input.DurationSeconds > 0 {
		details = append(details, fmt.Sprintf("Duration: %ds", input.DurationSeconds))
	}
	if input.Location != "" {
		details = append(details, "Location: "+input.Location)
	}
	if input.AudioURL != "" {
		details = append(details, "Audio: "+input.AudioURL)
	}
	if len(details) > 0 {
		blocks = append(blocks, headingBlock("Details"))
		for _, line := range details {
			blocks = append(blocks, bulletBlock(line))
		}
	}

	return blocks
}

func headingBlock(text string) map[string]any   { return richTextBlock("heading_2", text) }
func paragraphBlock(text string) map[string]any { return richTextBlock("paragraph", text) }
func bulletBlock(text string) map[string]any    { return richTextBlock("bulleted_list_item", text) }

func richTextBlock(kind, text string) map[string]any {
	return map[string]any{
		"object": "block",
		"type":   kind,
		kind: map[string]any{
			"rich_text": []map[string]any{
				{"type": "text", "text": map[string]string{"content": text}},
			},
		},
	}
}
