package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"investorly/api"
	"investorly/internal"
	"investorly/internal/domain"
	"investorly/internal/repository"
	"investorly/internal/service"
	"investorly/internal/util"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		zap.S().Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	lg := zap.S()
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open(secrets.Db.Driver, secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if secrets.Db.Driver == util.DefaultDbDriver {
		// sqlite only allows one writer
		dbConn.SetMaxOpenConns(1)
	}
	if err := repository.InitSchema(dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}

	registry := domain.DefaultAssetRegistry()
	priceRepository := repository.NewPriceRepository(secrets.DatasetDir, registry)
	apiRequestRepository := repository.NewApiRequestRepository(dbConn)
	chatMessageRepository := repository.NewChatMessageRepository(dbConn)

	// the assistant degrades to canned answers without a provider
	llmRepository, err := repository.NewLlmRepository(context.Background(), secrets.Llm)
	if err != nil {
		lg.Warnf("llm disabled: %v", err)
		llmRepository = nil
	}

	simulationService := service.NewSimulationService(priceRepository, registry)
	chatService := service.NewChatService(llmRepository, chatMessageRepository)

	apiHandler := &api.ApiHandler{
		Db:                   dbConn,
		SimulationService:    simulationService,
		ChatService:          chatService,
		BenchmarkHandler:     internal.BenchmarkHandler{PriceRepository: priceRepository},
		AssetRegistry:        registry,
		PriceRepository:      priceRepository,
		ApiRequestRepository: apiRequestRepository,
		CapitalGainsRate:     secrets.CapitalGainsRate,
		JwtDecodeToken:       secrets.Jwt,
		Port:                 secrets.Port,
	}

	return apiHandler, nil
}
