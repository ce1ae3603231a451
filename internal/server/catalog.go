package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/pdv88/quoteDrop-webapp/internal/catalog/domain"
)

// @Summary      Create Service
// @Description  Add a reusable service to the catalog
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body catalogdomain.CreateOfferingRequest true "Create Service Request"
// @Success      200  {object}  catalogdomain.Offering
// @Router       /services [post]
func (s *Server) CreateService(c *gin.Context) {
	var req catalogdomain.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Services
// @Description  List the authenticated user's service catalog
// @Tags         services
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  []catalogdomain.Offering
// @Router       /services [get]
func (s *Server) ListServices(c *gin.Context) {
	resp, err := s.catalogSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Service
// @Description  Update a catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Service ID"
// @Param        request body catalogdomain.UpdateOfferingRequest true "Update Service Request"
// @Success      200  {object}  catalogdomain.Offering
// @Router       /services/{id} [put]
func (s *Server) UpdateService(c *gin.Context) {
	var req catalogdomain.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Service
// @Description  Remove a catalog service
// @Tags         services
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Service ID"
// @Success      200  {object}  map[string]string
// @Router       /services/{id} [delete]
func (s *Server) DeleteService(c *gin.Context) {
	if err := s.catalogSvc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
