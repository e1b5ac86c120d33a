package entity

// Role identifies what an authenticated caller is allowed to do
type Role string

// Roles
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleSystem  Role = "system"
)

// SystemActorID is recorded as the creator of ledger entries nobody authored directly
const SystemActorID = "system"

// Actor is the identity every workflow operation receives explicitly
type Actor struct {
	ID   string
	Role Role
}

// IsTeacher reports whether the actor acts as a teacher
func (a Actor) IsTeacher() bool {
	return a.Role == RoleTeacher
}

// IsStudent reports whether the actor acts as a student
func (a Actor) IsStudent() bool {
	return a.Role == RoleStudent
}

// IsValidRole checks whether a role string is one of the known roles
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleTeacher, RoleStudent, RoleSystem:
		return true
	}
	return false
}

// SystemActor returns the actor used for seeding and internal bookkeeping
func SystemActor() Actor {
	return Actor{ID: SystemActorID, Role: RoleSystem}
}
