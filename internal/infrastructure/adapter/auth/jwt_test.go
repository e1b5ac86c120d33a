package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	timeprovider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
)

func TestTokenService(t *testing.T) {
	tp := timeprovider.NewRealTimeProvider()
	service := NewTokenService("secret", "token-economy", tp)
	teacher := entity.Actor{ID: "teacher-1", Role: entity.RoleTeacher}

	t.Run("Round trip", func(t *testing.T) {
		token, err := service.Issue(teacher, time.Hour)
		require.NoError(t, err)

		actor, err := service.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, teacher, actor)
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := service.Issue(teacher, -time.Minute)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokenService("other", "token-economy", tp).Issue(teacher, time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		token, err := NewTokenService("secret", "someone-else", tp).Issue(teacher, time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("System role is rejected", func(t *testing.T) {
		token, err := service.Issue(entity.SystemActor(), time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := service.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
