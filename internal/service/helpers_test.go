package service_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter int64

// newTestDB opens a fresh in-memory database per test. The shared-cache URI
// keeps all pooled connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("testdb_%d", atomic.AddInt64(&dbCounter, 1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// SQLite allows one writer; a single pooled connection keeps concurrent
	// test calls from tripping its lock instead of queueing.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Server.FrontendURL = "http://localhost:5173"
	return cfg
}

// recordingMailer notes deliveries without sending anything.
type recordingMailer struct{}

func (recordingMailer) Send(_, _, _, _ string) error { return nil }

// failingMailer simulates a broken relay.
type failingMailer struct{}

func (failingMailer) Send(_, _, _, _ string) error {
	return fmt.Errorf("smtp relay unreachable")
}

type testEnv struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	relRepo  *repository.RelationshipRepository
	plRepo   *repository.PlaylistRepository

	auth     *service.AuthService
	rel      *service.RelationshipService
	playlist *service.PlaylistService
	user     *service.UserService
	admin    *service.AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithMailer(t, recordingMailer{})
}

func newTestEnvWithMailer(t *testing.T, mailer service.Mailer) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()

	userRepo := repository.NewUserRepository(db)
	relRepo := repository.NewRelationshipRepository(db, nil)
	plRepo := repository.NewPlaylistRepository(db)

	rel := service.NewRelationshipService(relRepo, userRepo, mailer, cfg)
	return &testEnv{
		db:       db,
		userRepo: userRepo,
		relRepo:  relRepo,
		plRepo:   plRepo,
		auth:     service.NewAuthService(userRepo, mailer, cfg),
		rel:      rel,
		playlist: service.NewPlaylistService(plRepo, userRepo),
		user:     service.NewUserService(userRepo, plRepo, rel),
		admin:    service.NewAdminService(userRepo, plRepo, relRepo),
	}
}

var userCounter int64

// createUser inserts a verified account directly, skipping the OTP flow.
func (e *testEnv) createUser(t *testing.T) *model.User {
	t.Helper()

	n := atomic.AddInt64(&userCounter, 1)
	user := &model.User{
		FirstName:  "Test",
		LastName:   "User",
		Username:   fmt.Sprintf("user%d", n),
		Email:      fmt.Sprintf("user%d@example.com", n),
		Password:   "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
		Role:       model.RoleUser,
		IsVerified: true,
	}
	require.NoError(t, e.userRepo.Create(user))
	return user
}

func (e *testEnv) createAdmin(t *testing.T, role model.UserRole) *model.User {
	t.Helper()

	user := e.createUser(t)
	require.NoError(t, e.userRepo.UpdateFields(user.ID, map[string]interface{}{"role": role}))
	user.Role = role
	return user
}

func (e *testEnv) createPlaylist(t *testing.T, ownerID uint, title string) *model.Playlist {
	t.Helper()

	p, err := e.playlist.Create(ownerID, &service.PlaylistInput{
		Title:    title,
		URL:      "https://open.spotify.com/playlist/abc",
		Provider: "spotify",
		Genres:   []string{"pop"},
	})
	require.NoError(t, err)
	return p
}
