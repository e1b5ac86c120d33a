package middleware

import (
	"net/http"
	"strings"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// CodeUnauthorized is returned when no valid bearer token was presented
const CodeUnauthorized = 4010

// TokenVerifier turns a bearer token into the caller's identity
type TokenVerifier interface {
	Verify(token string) (entity.Actor, error)
}

// Auth requires a valid bearer token and stores the actor on the context
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    CodeUnauthorized,
				Message: "Missing bearer token",
			})
			return
		}

		actor, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    CodeUnauthorized,
				Message: "Invalid bearer token",
			})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole rejects actors whose role is not listed
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if ok {
			for _, role := range roles {
				if actor.Role == role {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
			Code:    errs.CodeForbidden,
			Message: errs.ErrRoleNotAllowed.Error(),
		})
	}
}

// ActorFrom returns the authenticated actor of a request
func ActorFrom(c *gin.Context) (entity.Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return entity.Actor{}, false
	}
	actor, ok := value.(entity.Actor)
	return actor, ok
}
