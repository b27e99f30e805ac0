package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/clubpool/clubpool/internal/adapters/handler/http"
	repo "github.com/clubpool/clubpool/internal/adapters/repository/postgres"
	"github.com/clubpool/clubpool/internal/core/domain"
	"github.com/clubpool/clubpool/internal/core/ports"
	"github.com/clubpool/clubpool/internal/core/services"
)

const testJWTSecret = "test-secret"

type TestApp struct {
	DB           *sql.DB
	Server       *httptest.Server
	Client       *http.Client
	ReconcileSvc ports.ReconcileService
	DBContainer  testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	proposalRepo := repo.NewProposalRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	membershipRepo := repo.NewMembershipRepository(db)
	auditRepo := repo.NewAuditRepository(db)
	orderRepo := repo.NewOrderRepository(db)

	proposalSvc := services.NewProposalService(proposalRepo, voteRepo, membershipRepo, auditRepo)
	voteSvc := services.NewVoteService(proposalRepo, voteRepo, membershipRepo, auditRepo)
	resolutionSvc := services.NewResolutionService(proposalRepo, membershipRepo, orderRepo, auditRepo)
	reconcileSvc := services.NewReconcileService(proposalRepo, voteRepo)

	proposalHandler := handler.NewProposalHandler(proposalSvc)
	voteHandler := handler.NewVoteHandler(voteSvc)
	resolutionHandler := handler.NewResolutionHandler(resolutionSvc)
	router := handler.NewHandler(proposalHandler, voteHandler, resolutionHandler, []byte(testJWTSecret))

	server := httptest.NewServer(router)

	return &TestApp{
		DB:           db,
		Server:       server,
		Client:       server.Client(),
		ReconcileSvc: reconcileSvc,
		DBContainer:  dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func createUser(t *testing.T, db *sql.DB) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	name := fmt.Sprintf("User %s", userID)
	_, err := db.Exec("INSERT INTO users (id, email, name) VALUES ($1, $2, $3)", userID, email, name)
	require.NoError(t, err)
	return userID
}

func createClub(t *testing.T, db *sql.DB, ownerID uuid.UUID, mode domain.VotingMode, threshold float64) uuid.UUID {
	t.Helper()

	clubID := uuid.New()
	_, err := db.Exec(
		"INSERT INTO clubs (id, name, owner_id, voting_mode, approval_threshold_percent) VALUES ($1, $2, $3, $4, $5)",
		clubID, fmt.Sprintf("Club %s", clubID), ownerID, mode, threshold,
	)
	require.NoError(t, err)

	addMember(t, db, clubID, ownerID, domain.RoleOwner, 0)
	return clubID
}

func addMember(t *testing.T, db *sql.DB, clubID, userID uuid.UUID, role domain.Role, contribution float64) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO club_members (club_id, user_id, role, contribution_amount) VALUES ($1, $2, $3, $4)",
		clubID, userID, role, contribution,
	)
	require.NoError(t, err)
}

func tokenFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signedToken
}
