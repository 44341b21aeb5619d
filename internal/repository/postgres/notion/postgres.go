package notion

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notiondomain "family-journal-go/internal/domain/notion"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) UpsertConnection(ctx context.Context, conn *notiondomain.Connection) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "workspace_id", "workspace_name", "bot_id", "updated_at"}),
		}).
		Create(conn).Error
}

func (r *PostgresRepository) GetConnection(ctx context.Context, userID string) (*notiondomain.Connection, error) {
	var conn notiondomain.Connection
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notiondomain.ErrNotConnected
		}
		return nil, err
	}
	return &conn, nil
}

func (r *PostgresRepository) SetParentPage(ctx context.Context, userID, pageID string) error {
	return r.db.WithContext(ctx).Model(&notiondomain.Connection{}).
		Where("user_id = ?", userID).
		Update("parent_page_id", pageID).Error
}

func (r *PostgresRepository) DeleteConnection(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Delete(&notiondomain.Connection{}, "user_id = ?", userID).Error
}

func (r *PostgresRepository) CreateState(ctx context.Context, state *notiondomain.OAuthState) error {
	return r.db.WithContext(ctx).Create(state).Error
}

func (r *PostgresRepository) TakeState(ctx context.Context, token string) (*notiondomain.OAuthState, error) {
	var state notiondomain.OAuthState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&state).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notiondomain.ErrStateNotFound
			}
			return err
		}
		result := tx.Delete(&notiondomain.OAuthState{}, "token = ?", token)
		if result.Error != nil {
			return result.Error
		}
		// A concurrent callback already consumed it.
		if result.RowsAffected == 0 {
			return notiondomain.ErrStateNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *PostgresRepository) DeleteExpiredStates(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&notiondomain.OAuthState{}).Error
}
