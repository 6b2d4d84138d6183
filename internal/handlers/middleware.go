package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by requesterMiddleware.
const (
	userIDKey    = "userId"
	requesterKey = "requester"
)

var (
	errMissingAuthHeader = errors.New("missing Authorization header")
	errAuthHeaderFormat  = errors.New("invalid Authorization header format")
)

const errInvalidToken = "invalid or expired token"

// bearerToken extracts the token from a "Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		return "", errAuthHeaderFormat
	}
	return strings.TrimSpace(token), nil
}

// requesterMiddleware authenticates the caller and records who is operating
// the nodes: the user id for service calls and the requester identity that
// node access checks and ACCESS_DENIED notices are keyed by.
func (h *Handler) requesterMiddleware(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		h.unauthorized(c, err.Error(), err)
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		h.unauthorized(c, errInvalidToken, err)
		return
	}

	c.Set(userIDKey, id)
	c.Set(requesterKey, strconv.Itoa(id))
	c.Next()
}

func (h *Handler) unauthorized(c *gin.Context, msg string, err error) {
	if h.log != nil {
		h.log.Infow("auth_rejected", "path", c.FullPath(), "reason", msg, "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// userID returns the authenticated user id, or 0 outside the middleware.
func userID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}

// requester returns the identity node access checks see for this caller.
func requester(c *gin.Context) string {
	return c.GetString(requesterKey)
}
