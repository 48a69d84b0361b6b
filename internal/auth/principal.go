package auth

import (
	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
)

// Principal is the resolved caller identity for one operation. Builtin marks
// the synthetic administrator that is not backed by a users row; consumers
// must branch on the flag rather than compare ids.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Role     models.RoleTitle
	Builtin  bool
}

// BuiltinAdmin returns the synthetic super-admin principal.
func BuiltinAdmin() Principal {
	return Principal{
		UserID:   constants.BuiltinAdminID,
		Username: constants.BuiltinAdminUsername,
		Email:    constants.BuiltinAdminEmail,
		Role:     models.RoleSuperAdmin,
		Builtin:  true,
	}
}

// FromUser builds a principal from a live user record.
func FromUser(u *models.User) Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.RoleTitle(),
	}
}
