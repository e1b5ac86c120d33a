package middleware

import (
	"fmt"
	"net/http"

	errs "github.com/amirhossein-jamali/token-economy/internal/domain/error"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics. A panic carrying a domain error answers with
// that error's status and code; anything else is an internal error.
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", recovered)
			}

			status := errs.HTTPStatus(err)
			fields := errs.LogFields(err)
			fields["panic"] = true
			fields["path"] = c.Request.URL.Path
			fields["method"] = c.Request.Method
			fields["client_ip"] = c.ClientIP()
			fields["request_id"] = c.GetHeader("X-Request-ID")
			if actor, ok := ActorFrom(c); ok {
				fields["actor_id"] = actor.ID
			}
			logger.Error("Panic recovered in API request", fields)

			body := dto.ErrorResponse{
				Code:    errs.ErrorCode(err),
				Message: err.Error(),
			}
			if status >= http.StatusInternalServerError {
				body.Message = "Internal server error"
			}
			c.AbortWithStatusJSON(status, body)
		}()

		c.Next()
	}
}
