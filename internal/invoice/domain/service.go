package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest carries the fields a caller submits for a new invoice.
// There is no status field; every invoice starts in Draft.
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required"`
	EventID       string          `json:"event_id" binding:"required"`
	EventName     string          `json:"event_name" binding:"required"`
	UserID        string          `json:"user_id" binding:"required"`
	UserName      string          `json:"user_name" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	IssueDate     time.Time       `json:"issue_date" binding:"required"`
	DueDate       time.Time       `json:"due_date" binding:"required"`
	Description   string          `json:"description" binding:"max=1000"`
}

// UpdateInvoiceRequest carries the updatable fields of an invoice. The
// invoice number, event and user references, issue date, and creation
// timestamp are fixed at creation and cannot be changed here.
type UpdateInvoiceRequest struct {
	ID          string          `json:"id"`
	EventName   string          `json:"event_name" binding:"required"`
	UserName    string          `json:"user_name" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Status      string          `json:"status" binding:"required"`
	Description string          `json:"description" binding:"max=1000"`
}

// InvoiceResponse is the transfer shape returned to clients. Identifiers are
// rendered as strings, amounts with two decimal places, dates in UTC.
type InvoiceResponse struct {
	ID            string    `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	EventID       string    `json:"event_id"`
	EventName     string    `json:"event_name"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Amount        string    `json:"amount"`
	IssueDate     time.Time `json:"issue_date"`
	DueDate       time.Time `json:"due_date"`
	Status        string    `json:"status"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Service exposes invoice operations to the transport layer. Every method
// absorbs failures instead of returning errors: lists come back empty,
// lookups come back nil, DeleteInvoice reports plain success or failure.
// Failure details go to the logs only.
type Service interface {
	ListInvoices(ctx context.Context) []InvoiceResponse
	GetInvoice(ctx context.Context, id string) *InvoiceResponse
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) *InvoiceResponse
	ListInvoicesByStatus(ctx context.Context, status string) []InvoiceResponse
	ListOverdueInvoices(ctx context.Context) []InvoiceResponse
	ListInvoicesByEvent(ctx context.Context, eventID string) []InvoiceResponse
	ListInvoicesByUser(ctx context.Context, userID string) []InvoiceResponse
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) *InvoiceResponse
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) *InvoiceResponse
	DeleteInvoice(ctx context.Context, id string) bool
}
