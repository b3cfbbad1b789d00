// Package service implements the invoice operations behind the HTTP layer.
//
// The service never returns errors to its callers. Storage faults,
// malformed identifiers, and unknown statuses all collapse into absent
// results: empty slices for lists, nil for single invoices, false for
// deletes. The underlying reason is written to the log and nowhere else.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/faktur/internal/invoice/domain"
	"github.com/smallbiznis/faktur/internal/observability/metrics"
	"github.com/smallbiznis/faktur/pkg/db"
	"github.com/smallbiznis/faktur/pkg/repository"
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	metrics *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:     p.Log.Named("invoice.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) ListInvoices(ctx context.Context) []domain.InvoiceResponse {
	return s.collect(s.repo.FindAll(ctx))
}

func (s *Service) GetInvoice(ctx context.Context, id string) *domain.InvoiceResponse {
	invoiceID, ok := parseID(id)
	if !ok {
		return nil
	}
	res := s.repo.FindByID(ctx, invoiceID)
	if !res.Success {
		if !res.NotFound() {
			s.log.Error("failed to load invoice", zap.String("reason", res.Message))
		}
		return nil
	}
	resp := toResponse(res.Data)
	return &resp
}

func (s *Service) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) *domain.InvoiceResponse {
	number := strings.TrimSpace(invoiceNumber)
	if number == "" {
		return nil
	}
	res := s.repo.FindByInvoiceNumber(ctx, number)
	if !res.Success {
		if res.Message != domain.MessageInvoiceNotFound {
			s.log.Error(res.Message)
		}
		return nil
	}
	resp := toResponse(res.Data)
	return &resp
}

// ListInvoicesByStatus resolves the status name before touching storage; an
// unknown name yields an empty list without a query.
func (s *Service) ListInvoicesByStatus(ctx context.Context, status string) []domain.InvoiceResponse {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return []domain.InvoiceResponse{}
	}
	return s.collect(s.repo.FindByStatus(ctx, parsed))
}

func (s *Service) ListOverdueInvoices(ctx context.Context) []domain.InvoiceResponse {
	return s.collect(s.repo.FindOverdue(ctx))
}

func (s *Service) ListInvoicesByEvent(ctx context.Context, eventID string) []domain.InvoiceResponse {
	id, ok := parseID(eventID)
	if !ok {
		return []domain.InvoiceResponse{}
	}
	return s.collect(s.repo.FindByEventID(ctx, id))
}

func (s *Service) ListInvoicesByUser(ctx context.Context, userID string) []domain.InvoiceResponse {
	id, ok := parseID(userID)
	if !ok {
		return []domain.InvoiceResponse{}
	}
	return s.collect(s.repo.FindByUserID(ctx, id))
}

func (s *Service) CreateInvoice(ctx context.Context, req domain.CreateInvoiceRequest) *domain.InvoiceResponse {
	eventID, ok := parseID(req.EventID)
	if !ok {
		s.log.Warn("invalid event reference", zap.String("event_id", req.EventID))
		return nil
	}
	userID, ok := parseID(req.UserID)
	if !ok {
		s.log.Warn("invalid user reference", zap.String("user_id", req.UserID))
		return nil
	}

	invoice := domain.Invoice{
		ID:            s.genID.Generate(),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		EventID:       eventID,
		EventName:     strings.TrimSpace(req.EventName),
		UserID:        userID,
		UserName:      strings.TrimSpace(req.UserName),
		Amount:        req.Amount,
		IssueDate:     req.IssueDate.UTC(),
		DueDate:       req.DueDate.UTC(),
		Status:        domain.StatusDraft,
		Description:   req.Description,
		CreatedAt:     time.Now().UTC(),
	}

	res := s.repo.Create(ctx, &invoice)
	if !res.Success {
		if db.IsDuplicateKeyMessage(res.Message) {
			s.log.Warn("invoice number already taken", zap.String("invoice_number", invoice.InvoiceNumber))
		} else {
			s.log.Error("failed to create invoice", zap.String("reason", res.Message))
		}
		return nil
	}

	s.metrics.RecordInvoiceCreated(ctx, res.Data.Status.String())
	resp := toResponse(res.Data)
	return &resp
}

func (s *Service) UpdateInvoice(ctx context.Context, id string, req domain.UpdateInvoiceRequest) *domain.InvoiceResponse {
	invoiceID, ok := parseID(id)
	if !ok {
		return nil
	}

	current := s.repo.FindByID(ctx, invoiceID)
	if !current.Success {
		if !current.NotFound() {
			s.log.Error("failed to load invoice", zap.String("reason", current.Message))
		}
		return nil
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		// Unknown status: discard the load and report absent, the same
		// outcome as a missing invoice.
		s.log.Warn("unknown invoice status", zap.String("status", req.Status))
		return nil
	}

	invoice := current.Data
	invoice.EventName = strings.TrimSpace(req.EventName)
	invoice.UserName = strings.TrimSpace(req.UserName)
	invoice.Amount = req.Amount
	invoice.DueDate = req.DueDate.UTC()
	invoice.Status = status
	invoice.Description = req.Description

	res := s.repo.Update(ctx, invoice)
	if !res.Success {
		s.log.Error("failed to update invoice", zap.String("reason", res.Message))
		return nil
	}

	s.metrics.RecordInvoiceUpdated(ctx, status.String())
	resp := toResponse(res.Data)
	return &resp
}

func (s *Service) DeleteInvoice(ctx context.Context, id string) bool {
	invoiceID, ok := parseID(id)
	if !ok {
		return false
	}
	res := s.repo.Delete(ctx, invoiceID)
	if !res.Success {
		if !res.NotFound() {
			s.log.Error("failed to delete invoice", zap.String("reason", res.Message))
		}
		return false
	}
	s.metrics.RecordInvoiceDeleted(ctx)
	return true
}

func (s *Service) collect(res repository.Result[[]*domain.Invoice]) []domain.InvoiceResponse {
	if !res.Success {
		s.log.Error(res.Message)
		return []domain.InvoiceResponse{}
	}
	out := make([]domain.InvoiceResponse, 0, len(res.Data))
	for _, invoice := range res.Data {
		out = append(out, toResponse(invoice))
	}
	return out
}

func parseID(raw string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return id, true
}

func toResponse(invoice *domain.Invoice) domain.InvoiceResponse {
	return domain.InvoiceResponse{
		ID:            invoice.ID.String(),
		InvoiceNumber: invoice.InvoiceNumber,
		EventID:       invoice.EventID.String(),
		EventName:     invoice.EventName,
		UserID:        invoice.UserID.String(),
		UserName:      invoice.UserName,
		Amount:        invoice.Amount.StringFixed(2),
		IssueDate:     invoice.IssueDate.UTC(),
		DueDate:       invoice.DueDate.UTC(),
		Status:        invoice.Status.String(),
		Description:   invoice.Description,
		CreatedAt:     invoice.CreatedAt.UTC(),
	}
}
