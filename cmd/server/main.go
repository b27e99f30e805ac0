package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	handler "github.com/clubpool/clubpool/internal/adapters/handler/http"
	repo "github.com/clubpool/clubpool/internal/adapters/repository/postgres"
	"github.com/clubpool/clubpool/internal/core/services"
	"github.com/clubpool/clubpool/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}
	logger.Configure(logger.ParseLevel(os.Getenv("APP_LOG_LEVEL")))

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Warn().Msg("JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	proposalRepo := repo.NewProposalRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	membershipRepo := repo.NewMembershipRepository(db)
	auditRepo := repo.NewAuditRepository(db)
	orderRepo := repo.NewOrderRepository(db)

	proposalSvc := services.NewProposalService(proposalRepo, voteRepo, membershipRepo, auditRepo)
	voteSvc := services.NewVoteService(proposalRepo, voteRepo, membershipRepo, auditRepo)
	resolutionSvc := services.NewResolutionService(proposalRepo, membershipRepo, orderRepo, auditRepo)

	proposalHandler := handler.NewProposalHandler(proposalSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	resolutionHandler := handler.NewResolutionHandler(resolutionSvc)
	router := handler.NewHandler(proposalHandler, voteHandler, resolutionHandler, []byte(jwtSecret))

	addr := "0.0.0.0:" + port()
	server := &stdhttp.Server{Addr: addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}
}

func port() string {
	if p := os.Getenv("APP_PORT"); p != "" {
		return p
	}
	return "8080"
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
