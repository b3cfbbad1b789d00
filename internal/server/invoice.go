package server

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/faktur/internal/invoice/domain"
	"github.com/smallbiznis/faktur/internal/observability/logger"
	"github.com/smallbiznis/faktur/internal/providers/pdf"
)

func (s *Server) ListInvoices(c *gin.Context) {
	respondOK(c, s.invoiceSvc.ListInvoices(c.Request.Context()))
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	item := s.invoiceSvc.GetInvoice(c.Request.Context(), id)
	if item == nil {
		AbortWithError(c, ErrInvoiceNotFound)
		return
	}
	respondOK(c, item)
}

func (s *Server) GetInvoiceByNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Param("invoiceNumber"))
	item := s.invoiceSvc.GetInvoiceByNumber(c.Request.Context(), number)
	if item == nil {
		AbortWithError(c, ErrInvoiceNotFound)
		return
	}
	respondOK(c, item)
}

func (s *Server) ListInvoicesByStatus(c *gin.Context) {
	status := strings.TrimSpace(c.Param("status"))
	respondOK(c, s.invoiceSvc.ListInvoicesByStatus(c.Request.Context(), status))
}

func (s *Server) ListOverdueInvoices(c *gin.Context) {
	respondOK(c, s.invoiceSvc.ListOverdueInvoices(c.Request.Context()))
}

func (s *Server) ListInvoicesByEvent(c *gin.Context) {
	eventID := strings.TrimSpace(c.Param("eventId"))
	respondOK(c, s.invoiceSvc.ListInvoicesByEvent(c.Request.Context(), eventID))
}

func (s *Server) ListInvoicesByUser(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	respondOK(c, s.invoiceSvc.ListInvoicesByUser(c.Request.Context(), userID))
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Amount.Sign() <= 0 {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "amount must be greater than zero"))
		return
	}

	created := s.invoiceSvc.CreateInvoice(c.Request.Context(), req)
	if created == nil {
		AbortWithError(c, ErrCreateInvoiceFailed)
		return
	}
	respondCreated(c, created)
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req invoicedomain.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Amount.Sign() <= 0 {
		AbortWithError(c, newValidationError("amount", "invalid_amount", "amount must be greater than zero"))
		return
	}

	updated := s.invoiceSvc.UpdateInvoice(c.Request.Context(), id, req)
	if updated == nil {
		AbortWithError(c, ErrInvoiceNotFound)
		return
	}
	respondOK(c, updated)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if !s.invoiceSvc.DeleteInvoice(c.Request.Context(), id) {
		AbortWithError(c, ErrInvoiceNotFound)
		return
	}
	respondOK(c, nil)
}

// DownloadInvoiceStatement streams the invoice as a PDF statement.
func (s *Server) DownloadInvoiceStatement(c *gin.Context) {
	ctx := c.Request.Context()

	id := strings.TrimSpace(c.Param("id"))
	item := s.invoiceSvc.GetInvoice(ctx, id)
	if item == nil {
		AbortWithError(c, ErrInvoiceNotFound)
		return
	}

	statement := pdf.Statement{
		InvoiceNumber: item.InvoiceNumber,
		Status:        item.Status,
		IssueDate:     item.IssueDate.Format("Jan 2, 2006"),
		DueDate:       item.DueDate.Format("Jan 2, 2006"),
		EventName:     item.EventName,
		UserName:      item.UserName,
		Amount:        item.Amount,
		Description:   item.Description,
		GeneratedAt:   time.Now().UTC().Format("Jan 2, 2006 15:04 MST"),
	}

	reader, err := s.statements.RenderStatement(ctx, statement)
	if err != nil {
		logger.FromContext(ctx).Error("statement render failed", zap.Error(err))
		AbortWithError(c, ErrStatementUnavailable)
		return
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		logger.FromContext(ctx).Error("statement read failed", zap.Error(err))
		AbortWithError(c, ErrStatementUnavailable)
		return
	}

	s.obsMetrics.RecordStatementRendered(ctx)
	c.Header("Content-Disposition", `attachment; filename="`+item.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
