package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

// @Summary      Get Profile
// @Description  Fetch the authenticated user's profile
// @Tags         profile
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  userdomain.User
// @Router       /users/profile [get]
func (s *Server) GetProfile(c *gin.Context) {
	user, err := s.userSvc.GetByID(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// @Summary      Update Profile
// @Description  Update business identity, tax rate and default terms
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body userdomain.UpdateProfileRequest true "Update Profile Request"
// @Success      200  {object}  userdomain.User
// @Router       /users/profile [put]
func (s *Server) UpdateProfile(c *gin.Context) {
	var req userdomain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.userSvc.UpdateProfile(c.Request.Context(), userID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
