package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/dto"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/stretchr/testify/require"
)

func listUsers(t *testing.T, env *testEnv, p auth.Principal) ([]dto.UserDTO, *httptest.ResponseRecorder) {
	t.Helper()

	c, w := authedContext(t, http.MethodGet, "/api/users", nil, p)
	env.userHandler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var users []dto.UserDTO
	decodeBody(t, w, &users)
	return users, w
}

func TestUserListScopedByRole(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "alice_admin", models.RoleSuperAdmin, true)
	manager := env.createUser(t, "mark_manager", models.RoleManager, true)
	employee := env.createUser(t, "eve_employee", models.RoleUser, true)
	env.createUser(t, "omar_other", models.RoleUser, true)

	// Super-admins see every non-deleted account.
	users, _ := listUsers(t, env, principalFor(admin))
	require.Len(t, users, 4)

	// Managers see themselves plus user-role accounts.
	users, _ = listUsers(t, env, principalFor(manager))
	require.Len(t, users, 3)
	for _, u := range users {
		require.NotEqual(t, admin.ID, u.ID)
	}

	// Users see only themselves.
	users, _ = listUsers(t, env, principalFor(employee))
	require.Len(t, users, 1)
	require.Equal(t, employee.ID, users[0].ID)
}

func TestUserListExcludesDeleted(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "alice_admin", models.RoleSuperAdmin, true)
	gone := env.createUser(t, "gone_user", models.RoleUser, true)
	env.softDeleteUser(t, gone.ID)

	users, _ := listUsers(t, env, principalFor(admin))
	require.Len(t, users, 1)
	require.Equal(t, admin.ID, users[0].ID)
}

func TestUserCreateNormalizesRoleTitle(t *testing.T) {
	env := setupTestEnv(t)

	c, w := authedContext(t, http.MethodPost, "/api/users", map[string]any{
		"username":   "new_manager",
		"email":      "new_manager@example.com",
		"password":   "secret123",
		"phone":      "1234567890",
		"address":    "Somewhere",
		"role_title": "MANAGER",
	}, auth.BuiltinAdmin())
	env.userHandler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string      `json:"message"`
		User    dto.UserDTO `json:"user"`
	}
	decodeBody(t, w, &resp)
	require.NotNil(t, resp.User.Role)
	require.Equal(t, "manager", resp.User.Role.Title)

	// Password material never appears in the projection.
	require.NotContains(t, strings.ToLower(w.Body.String()), "password")
}

func TestUserCreateUnknownRoleRejected(t *testing.T) {
	env := setupTestEnv(t)

	c, w := authedContext(t, http.MethodPost, "/api/users", map[string]any{
		"username":   "bad_role",
		"email":      "bad_role@example.com",
		"password":   "secret123",
		"phone":      "1234567890",
		"address":    "Somewhere",
		"role_title": "owner",
	}, auth.BuiltinAdmin())
	env.userHandler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	existing := env.createUser(t, "eve_employee", models.RoleUser, true)

	c, w := authedContext(t, http.MethodPost, "/api/users", map[string]any{
		"username": "eve_clone",
		"email":    existing.Email,
		"password": "secret123",
		"phone":    "1234567890",
		"address":  "Somewhere",
	}, auth.BuiltinAdmin())
	env.userHandler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserUpdateRoleAndDeactivate(t *testing.T) {
	env := setupTestEnv(t)
	employee := env.createUser(t, "eve_employee", models.RoleUser, true)

	c, w := authedContext(t, http.MethodPut, "/api/users/"+employee.ID, map[string]any{
		"role_title": "manager",
		"is_active":  false,
	}, auth.BuiltinAdmin())
	setParamID(c, employee.ID)
	env.userHandler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User dto.UserDTO `json:"user"`
	}
	decodeBody(t, w, &resp)
	require.NotNil(t, resp.User.Role)
	require.Equal(t, "manager", resp.User.Role.Title)
	require.False(t, resp.User.IsActive)
}

func TestUserUpdateShortPasswordRejected(t *testing.T) {
	env := setupTestEnv(t)
	employee := env.createUser(t, "eve_employee", models.RoleUser, true)

	c, w := authedContext(t, http.MethodPut, "/api/users/"+employee.ID, map[string]any{
		"password": "abc",
	}, auth.BuiltinAdmin())
	setParamID(c, employee.ID)
	env.userHandler.Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserDeleteSoft(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "alice_admin", models.RoleSuperAdmin, true)
	employee := env.createUser(t, "eve_employee", models.RoleUser, true)

	c, w := authedContext(t, http.MethodDelete, "/api/users/"+employee.ID, nil, principalFor(admin))
	setParamID(c, employee.ID)
	env.userHandler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)

	users, _ := listUsers(t, env, principalFor(admin))
	require.Len(t, users, 1)

	// Repeated deletes answer not-found.
	c, w = authedContext(t, http.MethodDelete, "/api/users/"+employee.ID, nil, principalFor(admin))
	setParamID(c, employee.ID)
	env.userHandler.Delete(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserGetMissingReturnsNotFound(t *testing.T) {
	env := setupTestEnv(t)

	c, w := authedContext(t, http.MethodGet, "/api/users/missing", nil, auth.BuiltinAdmin())
	setParamID(c, "00000000-0000-0000-0000-000000000999")
	env.userHandler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
