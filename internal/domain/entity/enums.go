package entity

// Fixed role codes. Roles are extensible rows in the registry, but these
// three are seeded and referenced throughout permission checks.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

// CategoryPath is the sentinel menu path marking a grouping node. Categories
// never carry permissions and are never directly addressable.
const CategoryPath = "__category__"

// AdminPathPrefix is the path convention that defaults unbound menus to
// ADMIN-only access.
const AdminPathPrefix = "/admin"

// Action distinguishes read access from write access in permission checks.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Board types.
const (
	BoardTypeGeneral = "general"
	BoardTypeQna     = "qna"
)

// QnA post statuses.
const (
	QnaStatusOpen       = "OPEN"
	QnaStatusInProgress = "IN_PROGRESS"
	QnaStatusAnswered   = "ANSWERED"
)

// ValidQnaStatus reports whether s is one of the allowed QnA statuses.
func ValidQnaStatus(s string) bool {
	switch s {
	case QnaStatusOpen, QnaStatusInProgress, QnaStatusAnswered:
		return true
	}
	return false
}

// System-level capability flags carried by roles.
const (
	PermManageBoards    = "MANAGE_BOARDS"
	PermManageMenus     = "MANAGE_MENUS"
	PermManageUsers     = "MANAGE_USERS"
	PermManageRoles     = "MANAGE_ROLES"
	PermModerateContent = "MODERATE_CONTENT"
)
