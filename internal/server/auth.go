package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

// @Summary      Register
// @Description  Create a new account and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body userdomain.RegisterRequest true "Register Request"
// @Success      200  {object}  userdomain.User
// @Router       /auth/register [post]
func (s *Server) Register(c *gin.Context) {
	var req userdomain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := s.tokens.Issue(user.ID.String(), s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user, "token": token})
}

// @Summary      Login
// @Description  Authenticate and return a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body userdomain.LoginRequest true "Login Request"
// @Success      200  {object}  userdomain.User
// @Router       /auth/login [post]
func (s *Server) Login(c *gin.Context) {
	var req userdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.userSvc.Authenticate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := s.tokens.Issue(user.ID.String(), s.clock.Now())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user, "token": token})
}

// @Summary      Change Password
// @Description  Change the authenticated user's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body userdomain.ChangePasswordRequest true "Change Password Request"
// @Success      200  {object}  map[string]string
// @Router       /auth/change-password [post]
func (s *Server) ChangePassword(c *gin.Context) {
	var req userdomain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.userSvc.ChangePassword(c.Request.Context(), userID(c), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
