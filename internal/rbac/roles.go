package rbac

// Role names carried in access tokens.
const (
	RoleOwner       = "owner"
	RoleCoordinator = "coordinator"
	RoleViewer      = "viewer"
	RoleSuperAdmin  = "super_admin"
)

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

// IsKnownRole reports whether role may be put in a token.
func IsKnownRole(role string) bool {
	switch role {
	case RoleOwner, RoleCoordinator, RoleViewer, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsExchangeable reports whether role may be requested with the admin API key.
// super_admin is never handed out that way; mint it with auth.Manager.Issue.
func IsExchangeable(role string) bool {
	return IsKnownRole(role) && !IsSuperAdmin(role)
}
