package service

import "strings"

// Resource names capabilities are keyed on.
type Resource string

// Action names capabilities are keyed on.
type Action string

// Resources and actions used across the platform.
const (
	ResourceCourse       Resource = "course"
	ResourceAvailability Resource = "availability"
	ResourceActivity     Resource = "activity"
	ResourceLead         Resource = "lead"
	ResourceMaterial     Resource = "material"

	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
	ActionEnroll Action = "enroll"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uint
	Role string
}

type capabilityKey struct {
	role     string
	resource Resource
	action   Action
}

// CapabilityService is a single capability table keyed by (resource, action,
// role), replacing per-entity permission helpers. Superadmin holds every
// capability.
type CapabilityService struct {
	grants map[capabilityKey]struct{}
}

// NewCapabilityService builds the service with the platform's default grant table.
func NewCapabilityService() *CapabilityService {
	s := &CapabilityService{grants: make(map[capabilityKey]struct{})}

	s.grant("admin", ResourceCourse, ActionCreate, ActionUpdate, ActionDelete, ActionEnroll)
	s.grant("admin", ResourceAvailability, ActionCreate, ActionDelete, ActionList)
	s.grant("admin", ResourceActivity, ActionList)
	s.grant("admin", ResourceLead, ActionList, ActionUpdate)
	s.grant("admin", ResourceMaterial, ActionCreate)

	s.grant("teacher", ResourceAvailability, ActionCreate, ActionList)
	s.grant("teacher", ResourceCourse, ActionUpdate)

	s.grant("student", ResourceCourse, ActionEnroll)

	return s
}

// Can reports whether the role holds the capability.
func (s *CapabilityService) Can(role string, resource Resource, action Action) bool {
	normalized := strings.ToLower(strings.TrimSpace(role))
	if normalized == "superadmin" {
		return true
	}

	_, ok := s.grants[capabilityKey{role: normalized, resource: resource, action: action}]
	return ok
}

func (s *CapabilityService) grant(role string, resource Resource, actions ...Action) {
	for _, action := range actions {
		s.grants[capabilityKey{role: role, resource: resource, action: action}] = struct{}{}
	}
}
