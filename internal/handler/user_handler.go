package handler

import (
	"fmt"
	"net/http"
	"time"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const accessTokenCookie = "access_token"

type UserHandler struct {
	userService  service.UserService
	auth         *middleware.Auth
	trail        auditTrail
	secureCookie bool
}

// NewUserHandler sets up the routing dependencies for auth and user admin endpoints
func NewUserHandler(userService service.UserService, auditService service.AuditService, auth *middleware.Auth, secureCookie bool) *UserHandler {
	return &UserHandler{
		userService:  userService,
		auth:         auth,
		trail:        auditTrail{audit: auditService},
		secureCookie: secureCookie,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", h.auth.RequireModule(access.Dashboard), h.GetMe)
		authGroup.PUT("/password", h.auth.RequireModule(access.Dashboard), h.ChangeOwnPassword)
	}

	users := router.Group("/api/users", h.auth.RequireModule(access.Users))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:username/role", h.ChangeRole)
		users.PUT("/:username/password", h.SetPassword)
		users.DELETE("/:username", h.DeleteUser)
	}
}

// Login handles POST /api/auth/login to authenticate and return a JWT token
// @Summary      Login user
// @Description  Verifies the stored credential and returns a JWT with the allowed modules
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginUserRequest   true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if !bindJSON(c, &req) {
		return
	}

	tokenRes, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	maxAge := 0
	if exp, err := time.Parse(time.RFC3339, tokenRes.ExpiresAt); err == nil {
		maxAge = int(time.Until(exp).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, tokenRes.Token, maxAge, "/", "", h.secureCookie, true)

	warn := h.trail.record(c.Request.Context(), tokenRes.Username, model.ActionLogin, "Successful login")
	c.JSON(http.StatusOK, response.SuccessWithWarning(http.StatusOK, tokenRes, warn))
}

// Logout clears the auth cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.secureCookie, true)
	ok(c, "Logged out")
}

// GetMe handles GET /api/auth/me
// @Summary      Get current user
// @Description  Returns the authenticated user and the modules the role may open
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/auth/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, user)
}

// ChangeOwnPassword handles PUT /api/auth/password
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ChangeOwnPasswordRequest  true  "Current and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/password [put]
func (h *UserHandler) ChangeOwnPassword(c *gin.Context) {
	var req service.ChangeOwnPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	username := actor(c)
	if err := h.userService.ChangeOwnPassword(c.Request.Context(), username, req); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Password changed", model.ActionChangePassword, "Changed own password")
}

// ListUsers handles GET /api/users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response{data=[]service.UserResponse}
// @Failure      403    {object}  response.Response
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, users)
}

// CreateUser handles POST /api/users
// @Summary      Create a new user
// @Description  Creates a user with a salted credential
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "Create User Payload"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, user, model.ActionCreateUser,
		fmt.Sprintf("Created user %s with role %s", user.Username, user.Role))
}

// ChangeRole handles PUT /api/users/:username/role
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string                     true  "Username"
// @Param        payload   body      service.ChangeRoleRequest  true  "New role"
// @Success      200       {object}  response.Response{data=service.UserResponse}
// @Failure      400       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/users/{username}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req service.ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	username := c.Param("username")
	user, err := h.userService.ChangeRole(c.Request.Context(), username, req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, user, model.ActionChangeRole,
		fmt.Sprintf("Changed role of %s to %s", username, user.Role))
}

// SetPassword handles PUT /api/users/:username/password
// @Summary      Reset a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string                      true  "Username"
// @Param        payload   body      service.SetPasswordRequest  true  "New password"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/users/{username}/password [put]
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req service.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	username := c.Param("username")
	if err := h.userService.SetPassword(c.Request.Context(), username, req); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Password updated", model.ActionChangePassword,
		"Reset password for "+username)
}

// DeleteUser handles DELETE /api/users/:username
// @Summary      Delete user
// @Description  Removes a user. The last admin can not be removed.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/users/{username} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.userService.DeleteUser(c.Request.Context(), username); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "User deleted successfully", model.ActionDeleteUser, "Deleted user "+username)
}
