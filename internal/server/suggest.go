package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	suggestiondomain "github.com/namora-app/namora/internal/suggestion/domain"
)

func (s *Server) GenerateNames(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if s.generateLimiter != nil {
		result, err := s.generateLimiter.Allow(c.Request.Context(), userID)
		if err == nil && !result.Allowed {
			if result.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			}
			AbortWithError(c, ErrRateLimited)
			return
		}
		// A limiter backend outage must not take the endpoint down with
		// it; the request proceeds unthrottled.
	}

	var query suggestiondomain.NameQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.suggestionSvc.Generate(c.Request.Context(), userID, query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
