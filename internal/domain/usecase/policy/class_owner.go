package policy

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
)

// RequireTeacher rejects actors that are not teachers
func RequireTeacher(actor entity.Actor) error {
	if !actor.IsTeacher() {
		return fmt.Errorf("%w: %s", errs.ErrRoleNotAllowed, actor.Role)
	}
	if actor.ID == "" {
		return errs.ErrInvalidID
	}
	return nil
}

// RequireClassOwner loads the class and checks that actor is the teacher owning it
func RequireClassOwner(ctx context.Context, classes persistence.ClassRepository, actor entity.Actor, classID string) (*entity.Class, error) {
	if err := RequireTeacher(actor); err != nil {
		return nil, err
	}

	class, err := classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !class.IsOwnedBy(actor.ID) {
		return nil, fmt.Errorf("%w: class %s", errs.ErrNotClassOwner, classID)
	}
	return class, nil
}

// TeacherClassIDs returns the ids of the classes a teacher owns, or just classID
// after checking ownership when one is given
func TeacherClassIDs(ctx context.Context, classes persistence.ClassRepository, teacherID, classID string) ([]string, error) {
	actor := entity.Actor{ID: teacherID, Role: entity.RoleTeacher}
	if classID != "" {
		if _, err := RequireClassOwner(ctx, classes, actor, classID); err != nil {
			return nil, err
		}
		return []string{classID}, nil
	}

	if err := RequireTeacher(actor); err != nil {
		return nil, err
	}
	owned, err := classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned))
	for _, class := range owned {
		ids = append(ids, class.ID)
	}
	return ids, nil
}
