package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/quote/render"
)

// quoteResponse attaches the computed money lines to the stored quote so
// clients never re-derive totals.
func quoteResponse(q *quotedomain.Quote) gin.H {
	items := make([]render.LineItemView, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, render.LineItemView{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitCost:    item.UnitCost,
		})
	}
	sum := render.Totals(items, q.TaxRate)
	return gin.H{
		"data": q,
		"totals": gin.H{
			"subtotal": sum.Subtotal,
			"tax":      sum.TaxAmount,
			"total":    sum.Total,
		},
	}
}

// @Summary      Create Quote
// @Description  Create a quote with its line items
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body quotedomain.CreateQuoteRequest true "Create Quote Request"
// @Success      200  {object}  quotedomain.Quote
// @Router       /quotes [post]
func (s *Server) CreateQuote(c *gin.Context) {
	var req quotedomain.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse(resp))
}

// @Summary      List Quotes
// @Description  List the authenticated user's quotes
// @Tags         quotes
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  []quotedomain.Quote
// @Router       /quotes [get]
func (s *Server) ListQuotes(c *gin.Context) {
	resp, err := s.quoteSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Quote
// @Description  Fetch one quote with client, items and totals
// @Tags         quotes
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Quote ID"
// @Success      200  {object}  quotedomain.Quote
// @Router       /quotes/{id} [get]
func (s *Server) GetQuote(c *gin.Context) {
	resp, err := s.quoteSvc.GetByID(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse(resp))
}

// @Summary      Update Quote
// @Description  Replace a quote's items and details
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Quote ID"
// @Param        request body quotedomain.UpdateQuoteRequest true "Update Quote Request"
// @Success      200  {object}  quotedomain.Quote
// @Router       /quotes/{id} [put]
func (s *Server) UpdateQuote(c *gin.Context) {
	var req quotedomain.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse(resp))
}

type updateQuoteStatusRequest struct {
	Status string `json:"status"`
}

// @Summary      Update Quote Status
// @Description  Move a quote through its lifecycle
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Quote ID"
// @Param        request body updateQuoteStatusRequest true "Update Status Request"
// @Success      200  {object}  quotedomain.Quote
// @Router       /quotes/{id}/status [patch]
func (s *Server) UpdateQuoteStatus(c *gin.Context) {
	var req updateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.UpdateStatus(c.Request.Context(), userID(c), c.Param("id"), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, quoteResponse(resp))
}
