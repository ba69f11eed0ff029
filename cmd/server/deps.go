package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/issueboard/issueboard/internal/config"
	"github.com/issueboard/issueboard/internal/handler"
	"github.com/issueboard/issueboard/internal/pkg/database"
	mongorepo "github.com/issueboard/issueboard/internal/repository/mongo"
	"github.com/issueboard/issueboard/internal/service"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	// Database connections
	Mongo *database.MongoDB

	// Repositories
	IssueRepo *mongorepo.IssueRepository

	// Services
	IssueService *service.IssueService

	// Handlers
	IssuesHandler *handler.IssuesHandler
	HealthHandler *handler.HealthHandler
}

// initDependencies initializes all dependencies
func initDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize MongoDB using database wrapper
	mongoDB, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	deps.Mongo = mongoDB

	// Initialize repositories
	deps.IssueRepo = mongorepo.NewIssueRepository(mongoDB)

	// Initialize services
	deps.IssueService = service.NewIssueService(deps.IssueRepo, logger)

	// Initialize handlers
	deps.IssuesHandler = handler.NewIssuesHandler(deps.IssueService, logger)
	deps.HealthHandler = handler.NewHealthHandler(mongoDB, appVersion)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close(ctx context.Context) {
	if d.Mongo != nil {
		if err := d.Mongo.Close(ctx); err != nil {
			d.Logger.Error("failed to close mongo client", zap.Error(err))
		}
	}
}
