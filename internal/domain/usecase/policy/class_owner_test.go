package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database"
)

func TestRequireClassOwner(t *testing.T) {
	db := database.NewTestDatabase(t)
	class := db.CreateClass(t, "teacher-1")
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   entity.Actor
		classID string
		want    error
	}{
		{"owner", entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher}, class.ID, nil},
		{"other teacher", entity.Actor{ID: "teacher-2", Role: entity.RoleTeacher}, class.ID, errs.ErrNotClassOwner},
		{"student", entity.Actor{ID: "teacher-1", Role: entity.RoleStudent}, class.ID, errs.ErrRoleNotAllowed},
		{"system", entity.SystemActor(), class.ID, errs.ErrRoleNotAllowed},
		{"unknown class", entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher}, "missing", errs.ErrClassNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireClassOwner(ctx, db.Classes(), tt.actor, tt.classID)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, class.ID, got.ID)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestTeacherClassIDs(t *testing.T) {
	db := database.NewTestDatabase(t)
	a := db.CreateClass(t, "teacher-1")
	b := db.CreateClass(t, "teacher-1")
	other := db.CreateClass(t, "teacher-2")
	ctx := context.Background()

	ids, err := TeacherClassIDs(ctx, db.Classes(), "teacher-1", "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	ids, err = TeacherClassIDs(ctx, db.Classes(), "teacher-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, ids)

	_, err = TeacherClassIDs(ctx, db.Classes(), "teacher-1", other.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	ids, err = TeacherClassIDs(ctx, db.Classes(), "teacher-3", "")
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}
