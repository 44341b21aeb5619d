package app

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"family-journal-go/internal/aigateway"
	"family-journal-go/internal/cache"
	"family-journal-go/internal/config"
	"family-journal-go/internal/db"
	childdomain "family-journal-go/internal/domain/child"
	drawingdomain "family-journal-go/internal/domain/drawing"
	familydomain "family-journal-go/internal/domain/family"
	insightsdomain "family-journal-go/internal/domain/insights"
	notedomain "family-journal-go/internal/domain/note"
	notiondomain "family-journal-go/internal/domain/notion"
	userdomain "family-journal-go/internal/domain/user"
	"family-journal-go/internal/notionapi"
	childrepo "family-journal-go/internal/repository/postgres/child"
	drawingrepo "family-journal-go/internal/repository/postgres/drawing"
	familyrepo "family-journal-go/internal/repository/postgres/family"
	insightsrepo "family-journal-go/internal/repository/postgres/insights"
	noterepo "family-journal-go/internal/repository/postgres/note"
	notionrepo "family-journal-go/internal/repository/postgres/notion"
	userrepo "family-journal-go/internal/repository/postgres/user"
	"family-journal-go/internal/transport/httpserver"
	"family-journal-go/internal/transport/httpserver/handler"
	"family-journal-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg := config.Load(log)

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	authz, err := familydomain.NewAuthorizer()
	if err != nil {
		return nil, fmt.Errorf("build authorizer: %w", err)
	}

	var redisClient *redis.Client
	var insightsCache insightsdomain.Cache = cache.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		log.Info("app: using redis insights cache", "addr", cfg.Redis.Addr)
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		insightsCache = cache.NewRedisStore(redisClient, log)
	}

	ai := aigateway.New(cfg.AI)

	families := familydomain.NewService(familyrepo.NewPostgres(dbConn), authz, cfg.PublicBaseURL, cfg.Invitations.TTL)
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	children := childdomain.NewService(childrepo.NewPostgres(dbConn))
	notes := notedomain.NewService(noterepo.NewPostgres(dbConn))
	drawings := drawingdomain.NewService(drawingrepo.NewPostgres(dbConn), ai, log)
	insights := insightsdomain.NewServiceWithCache(insightsrepo.NewPostgres(dbConn), ai, insightsCache, cfg.Insights.CacheTTL)
	notion := notiondomain.NewService(notionrepo.NewPostgres(dbConn), notiondomain.Config{
		ClientID:     cfg.Notion.ClientID,
		ClientSecret: cfg.Notion.ClientSecret,
		RedirectURL:  cfg.Notion.RedirectURL,
		StateTTL:     cfg.Notion.StateTTL,
	}, notionapi.New(cfg.Notion.APIBaseURL, cfg.Notion.Timeout))

	handlers := handler.New(families, children, notes, drawings, insights, notion, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, users)

	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			return err
		}
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
