package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdv88/quoteDrop-webapp/internal/mailer"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/quote/render"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

// renderQuote loads the quote and its issuer and renders the document.
// Premium templates silently fall back to standard for free accounts; the
// stored template is left untouched so an upgrade restores it.
func (s *Server) renderQuote(ctx context.Context, uid, quoteID string) (*quotedomain.Quote, *userdomain.User, render.Document, error) {
	quote, err := s.quoteSvc.GetByID(ctx, uid, quoteID)
	if err != nil {
		return nil, nil, render.Document{}, err
	}
	user, err := s.userSvc.GetByID(ctx, uid)
	if err != nil {
		return nil, nil, render.Document{}, err
	}

	input := render.BuildInput(quote, user)
	if !user.CanUseTemplate(input.Quote.Template) {
		input.Quote.Template = quotedomain.TemplateStandard
	}

	timeout := s.cfg.Render.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	doc, err := s.renderer.Render(ctx, input)
	if err != nil {
		return nil, nil, render.Document{}, err
	}
	return quote, user, doc, nil
}

// @Summary      Download Quote PDF
// @Description  Render the quote document. Served inline unless download=1.
// @Tags         quotes
// @Produce      application/pdf
// @Security     ApiKeyAuth
// @Param        id path string true "Quote ID"
// @Param        download query string false "Force attachment disposition"
// @Success      200
// @Router       /quotes/{id}/pdf [get]
func (s *Server) DownloadQuotePDF(c *gin.Context) {
	_, _, doc, err := s.renderQuote(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "1" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Bytes)
}

type sendQuoteRequest struct {
	Message string `json:"message"`
}

// @Summary      Send Quote
// @Description  Email the rendered quote to the client and mark it sent
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id path string true "Quote ID"
// @Param        request body sendQuoteRequest false "Send Quote Request"
// @Success      200  {object}  quotedomain.Quote
// @Router       /quotes/{id}/send [post]
func (s *Server) SendQuote(c *gin.Context) {
	uid := userID(c)
	if !s.sendLimiter.Allow(uid) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	var req sendQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	ctx := c.Request.Context()
	quote, user, doc, err := s.renderQuote(ctx, uid, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if quote.Client == nil || strings.TrimSpace(quote.Client.Email) == "" {
		AbortWithError(c, newValidationError("client_email", "missing_client_email", "client has no email address"))
		return
	}

	body := strings.TrimSpace(req.Message)
	if body == "" {
		body = fmt.Sprintf("Hi %s,\n\nPlease find quote %s from %s attached.\n\nThank you.",
			quote.Client.Name, render.QuoteNumber(quote.QuoteNumber), user.DisplayName())
	}

	err = s.mailer.Send(ctx, mailer.Message{
		To:      quote.Client.Email,
		Subject: fmt.Sprintf("Quote %s from %s", render.QuoteNumber(quote.QuoteNumber), user.DisplayName()),
		Body:    body,
		Attachment: &mailer.Attachment{
			Filename: doc.Filename,
			Content:  doc.Bytes,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if quote.Status == quotedomain.StatusDraft {
		updated, err := s.quoteSvc.UpdateStatus(ctx, uid, c.Param("id"), quotedomain.StatusSent)
		if err != nil {
			// Delivery already happened; report the quote as it stands.
			s.log.Warn("quote_status_update_failed", zap.Error(err))
		} else {
			quote = updated
		}
	}

	c.JSON(http.StatusOK, quoteResponse(quote))
}
