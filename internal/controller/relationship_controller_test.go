package controller_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/controller"
	"github.com/ManvithReddyyy/vinnu-app/internal/model"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"
	"github.com/ManvithReddyyy/vinnu-app/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ctrlDBCounter   int64
	ctrlUserCounter int64
)

type nullMailer struct{}

func (nullMailer) Send(_, _, _, _ string) error { return nil }

// newSocialRouter wires the relationship endpoints onto a bare engine. The
// caller identity comes from an X-Test-User header instead of a JWT.
func newSocialRouter(t *testing.T) (*gin.Engine, *repository.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:ctrl_testdb_%d?mode=memory&cache=shared", atomic.AddInt64(&ctrlDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.Server.FrontendURL = "http://localhost:5173"

	userRepo := repository.NewUserRepository(db)
	relRepo := repository.NewRelationshipRepository(db, nil)
	relSvc := service.NewRelationshipService(relRepo, userRepo, nullMailer{}, cfg)
	relCtrl := controller.NewRelationshipController(relSvc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if v := c.GetHeader("X-Test-User"); v != "" {
			id, _ := strconv.ParseUint(v, 10, 32)
			c.Set("user", &util.Claims{UserID: uint(id)})
		}
	})
	users := router.Group("/api/users")
	{
		users.POST("/:id/friend-request", relCtrl.SendFriendRequest)
		users.POST("/:id/friend-request/accept", relCtrl.AcceptRequest)
	}
	return router, userRepo
}

func seedUser(t *testing.T, repo *repository.UserRepository) *model.User {
	t.Helper()

	n := atomic.AddInt64(&ctrlUserCounter, 1)
	user := &model.User{
		FirstName:  "Wire",
		LastName:   "User",
		Username:   fmt.Sprintf("wireuser%d", n),
		Email:      fmt.Sprintf("wireuser%d@example.com", n),
		Password:   "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
		Role:       model.RoleUser,
		IsVerified: true,
	}
	require.NoError(t, repo.Create(user))
	return user
}

func doSocialRequest(router *gin.Engine, callerID uint, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-User", fmt.Sprint(callerID))
	router.ServeHTTP(w, req)
	return w
}

func TestAcceptWithoutPendingEdgeIsBadRequest(t *testing.T) {
	router, users := newSocialRouter(t)
	alice := seedUser(t, users)
	bob := seedUser(t, users)

	w := doSocialRequest(router, alice.ID,
		http.MethodPost, fmt.Sprintf("/api/users/%d/friend-request/accept", bob.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// An unknown sender is still a 404, not a 400.
	w = doSocialRequest(router, alice.ID,
		http.MethodPost, "/api/users/99999/friend-request/accept")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendFriendRequestReportsPendingOnTheWire(t *testing.T) {
	router, users := newSocialRouter(t)
	alice := seedUser(t, users)
	bob := seedUser(t, users)

	w := doSocialRequest(router, alice.ID,
		http.MethodPost, fmt.Sprintf("/api/users/%d/friend-request", bob.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"friendStatus":"pending"`)

	// The mirror request collapses into a friendship.
	w = doSocialRequest(router, bob.ID,
		http.MethodPost, fmt.Sprintf("/api/users/%d/friend-request", alice.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"friendStatus":"friends"`)
}
