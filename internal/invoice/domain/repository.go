package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/faktur/pkg/repository"
)

// MessageInvoiceNotFound is reported when a lookup by invoice number misses.
const MessageInvoiceNotFound = "Invoice not found"

// Repository is the invoice store. Reads and writes never return a Go error;
// faults come back as failed results whose message describes the operation
// that broke.
type Repository interface {
	FindAll(ctx context.Context) repository.Result[[]*Invoice]
	FindByID(ctx context.Context, id snowflake.ID) repository.Result[*Invoice]
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) repository.Result[*Invoice]
	FindByEventID(ctx context.Context, eventID snowflake.ID) repository.Result[[]*Invoice]
	FindByUserID(ctx context.Context, userID snowflake.ID) repository.Result[[]*Invoice]
	FindByStatus(ctx context.Context, status Status) repository.Result[[]*Invoice]
	FindOverdue(ctx context.Context) repository.Result[[]*Invoice]
	Create(ctx context.Context, invoice *Invoice) repository.Result[*Invoice]
	Update(ctx context.Context, invoice *Invoice) repository.Result[*Invoice]
	Delete(ctx context.Context, id snowflake.ID) repository.Result[*Invoice]
}
