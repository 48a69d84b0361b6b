package handlers

import (
	"net/http"
	"testing"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	"github.com/rsaxena-dev/task-tracker-api/internal/dto"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/stretchr/testify/suite"
)

type TaskHandlerTestSuite struct {
	suite.Suite
	env *testEnv

	admin    *models.User
	manager  *models.User
	employee *models.User
	other    *models.User
}

func (s *TaskHandlerTestSuite) SetupTest() {
	s.env = setupTestEnv(s.T())
	s.admin = s.env.createUser(s.T(), "alice_admin", models.RoleSuperAdmin, true)
	s.manager = s.env.createUser(s.T(), "mark_manager", models.RoleManager, true)
	s.employee = s.env.createUser(s.T(), "eve_employee", models.RoleUser, true)
	s.other = s.env.createUser(s.T(), "omar_other", models.RoleUser, true)
}

func (s *TaskHandlerTestSuite) listTasks(p auth.Principal) []dto.TaskDTO {
	c, w := authedContext(s.T(), http.MethodGet, "/api/tasks", nil, p)
	s.env.taskHandler.List(c)
	s.Equal(http.StatusOK, w.Code)

	var tasks []dto.TaskDTO
	decodeBody(s.T(), w, &tasks)
	return tasks
}

func (s *TaskHandlerTestSuite) TestListScopedByRole() {
	s.env.createTask(s.T(), "Employee task", s.employee, s.employee.ID)
	s.env.createTask(s.T(), "Other task", s.other, s.other.ID)
	s.env.createTask(s.T(), "Manager task", s.manager, s.manager.ID)

	// A user sees only their own task.
	tasks := s.listTasks(principalFor(s.employee))
	s.Len(tasks, 1)
	s.Equal("Employee task", tasks[0].Title)

	// A manager sees their own plus every employee's.
	tasks = s.listTasks(principalFor(s.manager))
	s.Len(tasks, 3)

	// A super-admin sees everything.
	tasks = s.listTasks(principalFor(s.admin))
	s.Len(tasks, 3)
}

func (s *TaskHandlerTestSuite) TestManagerDoesNotSeeDeactivatedEmployeeTasks() {
	s.env.createTask(s.T(), "Other task", s.other, s.other.ID)
	s.Require().NoError(s.env.db.Model(&models.User{}).Where("id = ?", s.other.ID).Update("is_active", false).Error)

	tasks := s.listTasks(principalFor(s.manager))
	s.Empty(tasks)

	// The super-admin still sees it.
	tasks = s.listTasks(principalFor(s.admin))
	s.Len(tasks, 1)
}

func (s *TaskHandlerTestSuite) TestCreateSeedsHistory() {
	c, w := authedContext(s.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "New task",
		"description": "Something to do",
		"assignee_id": s.employee.ID,
	}, principalFor(s.manager))
	s.env.taskHandler.Create(c)
	s.Equal(http.StatusCreated, w.Code)

	var task dto.TaskDTO
	decodeBody(s.T(), w, &task)
	s.Equal("pending", task.Status)
	s.Equal("medium", task.Priority)
	s.Require().Len(task.StatusHistory, 1)
	s.Equal("pending", task.StatusHistory[0].Status)
	s.Equal("Task created", task.StatusHistory[0].Note)
	s.Equal(s.manager.ID, task.StatusHistory[0].ChangedBy.ID)
	s.Equal(s.manager.Username, task.StatusHistory[0].ChangedBy.Username)
}

func (s *TaskHandlerTestSuite) TestUserCreateAssigneeOverridden() {
	// A user naming someone else as assignee gets the task themselves.
	c, w := authedContext(s.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Self task",
		"description": "Mine regardless",
		"assignee_id": s.other.ID,
	}, principalFor(s.employee))
	s.env.taskHandler.Create(c)
	s.Equal(http.StatusCreated, w.Code)

	var task dto.TaskDTO
	decodeBody(s.T(), w, &task)
	s.Require().NotNil(task.Assignee)
	s.Equal(s.employee.ID, task.Assignee.ID)
}

func (s *TaskHandlerTestSuite) TestManagerCannotAssignToManager() {
	peer := s.env.createUser(s.T(), "mona_manager", models.RoleManager, true)

	c, w := authedContext(s.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Peer task",
		"description": "Not allowed",
		"assignee_id": peer.ID,
	}, principalFor(s.manager))
	s.env.taskHandler.Create(c)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *TaskHandlerTestSuite) TestManagerCanAssignToSelf() {
	c, w := authedContext(s.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Own task",
		"description": "Managers keep their own plate",
		"assignee_id": s.manager.ID,
	}, principalFor(s.manager))
	s.env.taskHandler.Create(c)
	s.Equal(http.StatusCreated, w.Code)
}

func (s *TaskHandlerTestSuite) TestCreateRejectsPastDueDate() {
	c, w := authedContext(s.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Late task",
		"description": "Already overdue",
		"assignee_id": s.employee.ID,
		"due_date":    "2020-01-01T00:00:00Z",
	}, principalFor(s.admin))
	s.env.taskHandler.Create(c)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TaskHandlerTestSuite) TestStatusChangeAppendsOneEntry() {
	task := s.env.createTask(s.T(), "Tracked task", s.employee, s.manager.ID)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "in-progress",
	}, principalFor(s.employee))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeBody(s.T(), w, &updated)
	s.Equal("in-progress", updated.Status)
	s.Require().Len(updated.StatusHistory, 2)
	s.Equal("in-progress", updated.StatusHistory[1].Status)
	s.Equal("Status changed from pending to in-progress", updated.StatusHistory[1].Note)
	s.Equal(s.employee.ID, updated.StatusHistory[1].ChangedBy.ID)

	// The entry survives in storage, not just in the response.
	stored, err := s.env.taskRepo.FindByID(task.ID)
	s.Require().NoError(err)
	s.Len(stored.StatusHistory, 2)
}

func (s *TaskHandlerTestSuite) TestSameStatusAppendsNothing() {
	task := s.env.createTask(s.T(), "Idle task", s.employee, s.manager.ID)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "pending",
		"note":   "still pending",
	}, principalFor(s.employee))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeBody(s.T(), w, &updated)
	s.Len(updated.StatusHistory, 1)
}

func (s *TaskHandlerTestSuite) TestStatusChangeKeepsCustomNote() {
	task := s.env.createTask(s.T(), "Noted task", s.employee, s.manager.ID)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "completed",
		"note":   "Shipped ahead of schedule",
	}, principalFor(s.employee))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeBody(s.T(), w, &updated)
	s.Require().Len(updated.StatusHistory, 2)
	s.Equal("Shipped ahead of schedule", updated.StatusHistory[1].Note)
}

func (s *TaskHandlerTestSuite) TestUserCannotUpdateOthersTask() {
	task := s.env.createTask(s.T(), "Other task", s.other, s.other.ID)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "completed",
	}, principalFor(s.employee))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *TaskHandlerTestSuite) TestManagerCannotUpdateManagerTask() {
	peer := s.env.createUser(s.T(), "mona_manager", models.RoleManager, true)
	task := s.env.createTask(s.T(), "Peer task", peer, peer.ID)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "completed",
	}, principalFor(s.manager))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *TaskHandlerTestSuite) TestUpdateInvalidStatusRejected() {
	task := s.env.createTask(s.T(), "Tracked task", s.employee, s.manager.ID)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "done",
	}, principalFor(s.employee))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TaskHandlerTestSuite) TestDeleteHidesTask() {
	task := s.env.createTask(s.T(), "Doomed task", s.employee, s.manager.ID)

	c, w := authedContext(s.T(), http.MethodDelete, "/api/tasks/"+task.ID, nil, principalFor(s.admin))
	setParamID(c, task.ID)
	s.env.taskHandler.Delete(c)
	s.Equal(http.StatusOK, w.Code)

	s.Empty(s.listTasks(principalFor(s.admin)))

	// The row survives as a tombstone with its history intact.
	stored, err := s.env.taskRepo.FindByID(task.ID)
	s.Require().NoError(err)
	s.True(stored.IsDeleted)
	s.Len(stored.StatusHistory, 1)
}

func (s *TaskHandlerTestSuite) TestDeletedTaskUpdateReturnsNotFound() {
	task := s.env.createTask(s.T(), "Doomed task", s.employee, s.manager.ID)
	s.Require().NoError(s.env.db.Model(&models.Task{}).Where("id = ?", task.ID).Update("is_deleted", true).Error)

	c, w := authedContext(s.T(), http.MethodPut, "/api/tasks/"+task.ID, map[string]any{
		"status": "completed",
	}, principalFor(s.admin))
	setParamID(c, task.ID)
	s.env.taskHandler.Update(c)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TaskHandlerTestSuite) TestBuiltinAdminHistoryIdentity() {
	c, w := authedContext(s.T(), http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Admin task",
		"description": "Created by the built-in account",
		"assignee_id": s.employee.ID,
	}, auth.BuiltinAdmin())
	s.env.taskHandler.Create(c)
	s.Equal(http.StatusCreated, w.Code)

	var task dto.TaskDTO
	decodeBody(s.T(), w, &task)
	s.Require().Len(task.StatusHistory, 1)
	s.Equal(constants.BuiltinAdminID, task.StatusHistory[0].ChangedBy.ID)
	s.Equal(constants.BuiltinAdminUsername, task.StatusHistory[0].ChangedBy.Username)
	s.Equal(constants.BuiltinAdminEmail, task.StatusHistory[0].ChangedBy.Email)
}

func TestTaskHandlerSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
