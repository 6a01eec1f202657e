package role

import "github.com/pkg/errors"

// ErrNotTeacher is returned when a teacher-scoped operation is attempted
// by an identity that does not resolve to the teacher role.
var ErrNotTeacher = errors.New("teacher role required")

// Roles
const (
	Teacher = "teacher"
	Student = "student"
)

type (
	// Resolver maps an identity to its role. Implementations must be total:
	// any username resolves to a role, unknown ones to Student.
	Resolver interface {
		Resolve(username string) string
		IsTeacher(username string) bool
	}

	allowlistResolver struct {
		teachers map[string]struct{}
	}
)

var _ Resolver = (*allowlistResolver)(nil) // interface compliance check

// NewAllowlistResolver resolves against a fixed allowlist of teacher accounts.
// The allowlist can be swapped for a DB or identity-provider backed Resolver
// without touching call sites.
func NewAllowlistResolver(teachers []string) Resolver {
	set := make(map[string]struct{}, len(teachers))
	for _, t := range teachers {
		set[t] = struct{}{}
	}
	return &allowlistResolver{teachers: set}
}

func (res *allowlistResolver) Resolve(username string) string {
	if res.IsTeacher(username) {
		return Teacher
	}
	return Student
}

func (res *allowlistResolver) IsTeacher(username string) bool {
	_, ok := res.teachers[username]
	return ok
}
