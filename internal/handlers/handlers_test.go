package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	"github.com/rsaxena-dev/task-tracker-api/internal/database"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
	"github.com/rsaxena-dev/task-tracker-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db             *gorm.DB
	tokens         *auth.TokenService
	userRepo       repository.UserRepository
	projectRepo    repository.ProjectRepository
	taskRepo       repository.TaskRepository
	authService    *services.AuthService
	authHandler    *AuthHandler
	userHandler    *UserHandler
	projectHandler *ProjectHandler
	taskHandler    *TaskHandler
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)
	require.NoError(t, database.SeedRoles(db))

	database.SetDB(db)

	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenService("test-secret", time.Hour)
	roles := services.NewRoleCache(roleRepo, time.Minute)
	visibility := services.NewVisibilityService(userRepo, roles)
	authService := services.NewAuthService(userRepo, roles, tokens, "admin@taskmanager.com", "admin123")
	userService := services.NewUserService(userRepo, roles)
	projectService := services.NewProjectService(projectRepo, visibility)
	taskService := services.NewTaskService(taskRepo, userRepo, visibility, nil)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &testEnv{
		db:             db,
		tokens:         tokens,
		userRepo:       userRepo,
		projectRepo:    projectRepo,
		taskRepo:       taskRepo,
		authService:    authService,
		authHandler:    NewAuthHandler(authService),
		userHandler:    NewUserHandler(userService),
		projectHandler: NewProjectHandler(projectService),
		taskHandler:    NewTaskHandler(taskService),
	}
}

// createUser inserts a user holding the given role. The email is derived
// from the username.
func (e *testEnv) createUser(t *testing.T, username string, title models.RoleTitle, active bool) *models.User {
	t.Helper()

	var role models.Role
	require.NoError(t, e.db.Where("title = ?", title).First(&role).Error)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		Phone:        "1234567890",
		Address:      "Test Address",
		RoleID:       role.ID,
		IsActive:     active,
	}
	require.NoError(t, e.db.Create(user).Error)
	user.Role = &role
	return user
}

func (e *testEnv) softDeleteUser(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", id).Update("is_deleted", true).Error)
}

func (e *testEnv) createTask(t *testing.T, title string, assignee *models.User, creatorID string) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		AssigneeID:  assignee.ID,
		Priority:    models.TaskPriorityMedium,
	}
	task.SeedHistory(creatorID, time.Now())
	require.NoError(t, e.db.Create(task).Error)
	return task
}

func principalFor(u *models.User) auth.Principal {
	return auth.FromUser(u)
}

// authedContext builds a gin test context carrying a resolved principal,
// simulating the RequireAuth middleware.
func authedContext(t *testing.T, method, url string, body any, p auth.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c.Request = req
	c.Set(constants.ContextKeyPrincipal, p)
	return c, w
}

func setParamID(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
