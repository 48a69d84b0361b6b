package constants

const (
	// ContextKeyPrincipal is the gin context key the auth middleware stores the resolved principal under.
	ContextKeyPrincipal = "principal"

	MinPasswordLength = 6
)

// Built-in administrator identity. The ID is reserved and never backed by a
// users row; it only appears as a changed_by reference in task history.
const (
	BuiltinAdminID       = "00000000-0000-0000-0000-00000000a001"
	BuiltinAdminUsername = "admin"
	BuiltinAdminEmail    = "admin@taskmanager.com"
)
