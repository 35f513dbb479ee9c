package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bizledger/internal/access"
	"bizledger/internal/apperr"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Context keys set by Authenticate
const (
	CtxUsername = "username"
	CtxRole     = "userRole"
)

// RoleSource resolves the role currently stored for a user. It returns an
// apperr NOT_FOUND error once the user has been deleted.
type RoleSource interface {
	RoleOf(ctx context.Context, username string) (string, error)
}

// Auth validates JWTs issued at login and gates route groups by module.
// The role claim only says who signed in; every request is authorized
// against the role stored now.
type Auth struct {
	secret []byte
	roles  RoleSource
	log    *zap.Logger
}

func NewAuth(secret []byte, roles RoleSource, log *zap.Logger) *Auth {
	return &Auth{secret: secret, roles: roles, log: log.Named("auth")}
}

// Authenticate parses the token and stores username and role on the context.
// The token is read from the access_token cookie, then the Authorization
// header, then the token query parameter (browsers can not set headers on
// websocket upgrades).
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireModule authenticates the caller and rejects roles that may not open module
func (a *Auth) RequireModule(module access.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c) {
			return
		}

		role := c.GetString(CtxRole)
		if err := access.Authorize(role, module); err != nil {
			a.log.Warn("access denied",
				zap.String("username", c.GetString(CtxUsername)),
				zap.String("role", role),
				zap.String("module", string(module)),
				zap.String("path", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, response.Fail(err))
			return
		}
		c.Next()
	}
}

// authenticate aborts the request and returns false when no valid token is present
func (a *Auth) authenticate(c *gin.Context) bool {
	if _, ok := c.Get(CtxRole); ok {
		return true
	}

	tokenString, msg := extractToken(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, msg))
		return false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
		return false
	}
	username, _ := claims["sub"].(string)
	if _, ok := claims["role"].(string); username == "" || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Role not found in token"))
		return false
	}

	role, err := a.roles.RoleOf(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			a.log.Warn("token for unknown user", zap.String("username", username))
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User no longer exists"))
			return false
		}
		a.log.Error("role lookup failed", zap.String("username", username), zap.Error(err))
		c.AbortWithStatusJSON(apperr.HTTPStatus(err), response.Fail(err))
		return false
	}

	c.Set(CtxUsername, username)
	c.Set(CtxRole, role)
	return true
}

func extractToken(c *gin.Context) (string, string) {
	if tokenString, err := c.Cookie("access_token"); err == nil && tokenString != "" {
		return tokenString, ""
	}
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "Invalid authorization format. Expected 'Bearer <token>'"
		}
		return parts[1], ""
	}
	if tokenString := c.Query("token"); tokenString != "" {
		return tokenString, ""
	}
	return "", "Authorization is missing"
}
