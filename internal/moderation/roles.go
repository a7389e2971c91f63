// Package moderation implements the review workflow: role checks and bulk
// approve/reject/delete over the ids collected by the selection tree.
package moderation

// Role is the caller's portal role.
type Role string

// Action is a moderation capability.
type Action string

const (
	RoleViewer    Role = "viewer"
	RoleAuthor    Role = "author"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionApprove Action = "approve"
	ActionDelete  Action = "delete"
)

// Can reports whether a role may perform an action.
func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleModerator:
		return action == ActionRead || action == ActionWrite || action == ActionApprove
	case RoleAuthor:
		return action == ActionRead || action == ActionWrite
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// Normalize maps an unknown role string to the least-privileged role.
func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleAuthor, RoleModerator, RoleAdmin:
		return Role(role)
	default:
		return RoleViewer
	}
}
