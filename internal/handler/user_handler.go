package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamereview/backend/internal/apperr"
)

// CredentialsInput is the body of register and login.
type CredentialsInput struct {
	Username string `json:"username" binding:"required" example:"gamer42"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Registration Info"
// @Success      200  {object}  service.AuthResult
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "User already exists"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "username and password are required"})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.metrics.AuthAttempt("register", apperr.KindOf(err).String())
		h.respondError(c, err)
		return
	}

	h.metrics.AuthAttempt("register", "ok")
	c.JSON(http.StatusOK, res)
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CredentialsInput true "Login Info"
// @Success      200  {object}  service.AuthResult
// @Failure      400  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input CredentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.metrics.AuthAttempt("login", apperr.KindInvalidCredentials.String())
		h.respondError(c, apperr.InvalidCredentials())
		return
	}

	res, err := h.auth.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.metrics.AuthAttempt("login", apperr.KindOf(err).String())
		h.respondError(c, err)
		return
	}

	h.metrics.AuthAttempt("login", "ok")
	c.JSON(http.StatusOK, res)
}
