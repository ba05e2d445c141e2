package auth

import (
	"slices"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

// ============================================================================
// ROLES
// ============================================================================

const (
	RoleAdmin     kernel.Role = "admin"
	RoleHR        kernel.Role = "hr"
	RoleManager   kernel.Role = "manager"
	RoleEmployee  kernel.Role = "employee"
	RoleCandidate kernel.Role = "candidate"
	RoleService   kernel.Role = "service" // machine clients authenticated by API key
)

// ============================================================================
// SCOPES
// ============================================================================

const (
	ScopeAll = "*"

	ScopeJobsAll     = "jobs:*"
	ScopeJobsRead    = "jobs:read"
	ScopeJobsWrite   = "jobs:write"
	ScopeJobsDelete  = "jobs:delete"
	ScopeJobsPublish = "jobs:publish"

	ScopeCandidatesAll  = "candidates:*"
	ScopeCandidatesRead = "candidates:read"

	ScopeApplicationsAll    = "applications:*"
	ScopeApplicationsRead   = "applications:read"
	ScopeApplicationsApply  = "applications:apply"
	ScopeApplicationsReview = "applications:review" // status changes, notes, rescoring
	ScopeApplicationsDelete = "applications:delete"

	ScopeOnboardingAll   = "onboarding:*"
	ScopeOnboardingRead  = "onboarding:read"
	ScopeOnboardingWrite = "onboarding:write"

	ScopeReportsView = "reports:view"

	ScopeChatbotAsk    = "chatbot:ask"
	ScopeChatbotManage = "chatbot:manage"
)

// RoleScopes is the scope set granted to each role.
var RoleScopes = map[kernel.Role][]string{
	RoleAdmin: {ScopeAll},
	RoleHR: {
		ScopeJobsAll,
		ScopeCandidatesAll,
		ScopeApplicationsAll,
		ScopeOnboardingAll,
		ScopeReportsView,
		ScopeChatbotAsk,
		ScopeChatbotManage,
	},
	RoleManager: {
		ScopeJobsRead,
		ScopeCandidatesRead,
		ScopeApplicationsRead,
		ScopeApplicationsReview,
		ScopeOnboardingRead,
		ScopeReportsView,
		ScopeChatbotAsk,
	},
	RoleEmployee: {
		ScopeOnboardingRead,
		ScopeOnboardingWrite,
		ScopeChatbotAsk,
	},
	RoleCandidate: {
		ScopeJobsRead,
		ScopeApplicationsApply,
		ScopeChatbotAsk,
	},
	RoleService: {
		ScopeJobsRead,
		ScopeApplicationsRead,
		ScopeReportsView,
	},
}

// IsKnownRole reports whether r has a scope set.
func IsKnownRole(r kernel.Role) bool {
	_, ok := RoleScopes[r]
	return ok
}

// HasScope reports whether role grants scope, honoring "*" and "<resource>:*".
func HasScope(role kernel.Role, scope string) bool {
	granted, ok := RoleScopes[role]
	if !ok {
		return false
	}
	if slices.Contains(granted, ScopeAll) || slices.Contains(granted, scope) {
		return true
	}
	resource, _, found := strings.Cut(scope, ":")
	return found && slices.Contains(granted, resource+":*")
}
