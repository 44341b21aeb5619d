package notion

import "context"

type Repository interface {
	UpsertConnection(ctx context.Context, conn *Connection) error
	GetConnection(ctx context.Context, userID string) (*Connection, error)
	SetParentPage(ctx context.Context, userID, pageID string) error
	DeleteConnection(ctx context.Context, userID string) error

	CreateState(ctx context.Context, state *OAuthState) error
	// TakeState fetches and deletes the state in one step so a token can
	// never be redeemed twice.
	TakeState(ctx context.Context, token string) (*OAuthState, error)
	DeleteExpiredStates(ctx context.Context) error
}
