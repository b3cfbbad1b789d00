package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktur/internal/clock"
	"github.com/smallbiznis/faktur/internal/invoice/domain"
	invoicerepo "github.com/smallbiznis/faktur/internal/invoice/repository"
	"github.com/smallbiznis/faktur/pkg/repository"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Invoice{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	repo := invoicerepo.Provide(invoicerepo.Params{
		DB:    conn,
		Clock: clock.NewFakeClock(time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)),
	})
	return NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
}

func createRequest(number string) domain.CreateInvoiceRequest {
	return domain.CreateInvoiceRequest{
		InvoiceNumber: number,
		EventID:       "1948765432109876224",
		EventName:     "Jakarta Tech Summit",
		UserID:        "1948765432109876300",
		UserName:      "Putri Maharani",
		Amount:        decimal.RequireFromString("150.00"),
		IssueDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Description:   "exhibitor booth",
	}
}

func TestCreateInvoiceStartsDraft(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := svc.CreateInvoice(ctx, createRequest("INV-100"))
	if created == nil {
		t.Fatalf("expected invoice, got nil")
	}
	assert.Equal(t, "Draft", created.Status)
	assert.Equal(t, "INV-100", created.InvoiceNumber)
	assert.Equal(t, "150.00", created.Amount)
	assert.Equal(t, "1948765432109876224", created.EventID)
	assert.Equal(t, "1948765432109876300", created.UserID)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateInvoiceTrimsFields(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	req := createRequest("  INV-101  ")
	req.EventName = "  Jakarta Tech Summit "
	req.UserName = " Putri Maharani  "
	created := svc.CreateInvoice(ctx, req)
	if created == nil {
		t.Fatalf("expected invoice, got nil")
	}
	assert.Equal(t, "INV-101", created.InvoiceNumber)
	assert.Equal(t, "Jakarta Tech Summit", created.EventName)
	assert.Equal(t, "Putri Maharani", created.UserName)
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if first := svc.CreateInvoice(ctx, createRequest("INV-102")); first == nil {
		t.Fatalf("expected first create to succeed")
	}
	if second := svc.CreateInvoice(ctx, createRequest("INV-102")); second != nil {
		t.Fatalf("expected duplicate create to return nil, got %+v", second)
	}
	assert.Len(t, svc.ListInvoices(ctx), 1)
}

func TestCreateInvoiceRejectsMalformedRefs(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	req := createRequest("INV-103")
	req.EventID = "not-a-snowflake"
	assert.Nil(t, svc.CreateInvoice(ctx, req))

	req = createRequest("INV-103")
	req.UserID = ""
	assert.Nil(t, svc.CreateInvoice(ctx, req))

	assert.Empty(t, svc.ListInvoices(ctx))
}

func TestInvoicePaymentFlow(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := svc.CreateInvoice(ctx, createRequest("INV-100"))
	if created == nil {
		t.Fatalf("expected invoice, got nil")
	}

	update := domain.UpdateInvoiceRequest{
		EventName:   created.EventName,
		UserName:    created.UserName,
		Amount:      decimal.RequireFromString("175.50"),
		DueDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Status:      "Paid",
		Description: "settled by bank transfer",
	}
	updated := svc.UpdateInvoice(ctx, created.ID, update)
	if updated == nil {
		t.Fatalf("expected updated invoice, got nil")
	}
	assert.Equal(t, "Paid", updated.Status)
	assert.Equal(t, "175.50", updated.Amount)
	assert.Equal(t, "settled by bank transfer", updated.Description)

	for _, raw := range []string{"Paid", "paid", "PAID"} {
		byStatus := svc.ListInvoicesByStatus(ctx, raw)
		if len(byStatus) != 1 || byStatus[0].InvoiceNumber != "INV-100" {
			t.Fatalf("expected INV-100 under %q, got %+v", raw, byStatus)
		}
	}
	assert.Empty(t, svc.ListInvoicesByStatus(ctx, "Draft"))
}

func TestUpdateInvoicePreservesIdentity(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := svc.CreateInvoice(ctx, createRequest("INV-104"))
	if created == nil {
		t.Fatalf("expected invoice, got nil")
	}

	update := domain.UpdateInvoiceRequest{
		EventName: "Bandung Design Week",
		UserName:  "Sari Lestari",
		Amount:    decimal.RequireFromString("80.00"),
		DueDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    "Sent",
	}
	updated := svc.UpdateInvoice(ctx, created.ID, update)
	if updated == nil {
		t.Fatalf("expected updated invoice, got nil")
	}

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, created.EventID, updated.EventID)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.True(t, updated.IssueDate.Equal(created.IssueDate))
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
	assert.Equal(t, "Bandung Design Week", updated.EventName)
	assert.Equal(t, "Sari Lestari", updated.UserName)
	assert.Empty(t, updated.Description)
}

func TestUpdateInvoiceUnknownStatus(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := svc.CreateInvoice(ctx, createRequest("INV-105"))
	if created == nil {
		t.Fatalf("expected invoice, got nil")
	}

	update := domain.UpdateInvoiceRequest{
		EventName: "Changed",
		UserName:  "Changed",
		Amount:    decimal.RequireFromString("999.99"),
		DueDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    "Refunded",
	}
	assert.Nil(t, svc.UpdateInvoice(ctx, created.ID, update))

	current := svc.GetInvoice(ctx, created.ID)
	if current == nil {
		t.Fatalf("expected invoice to survive rejected update")
	}
	assert.Equal(t, "Draft", current.Status)
	assert.Equal(t, "150.00", current.Amount)
	assert.Equal(t, "Jakarta Tech Summit", current.EventName)
}

func TestUpdateInvoiceMissing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	update := domain.UpdateInvoiceRequest{
		EventName: "X",
		UserName:  "Y",
		Amount:    decimal.RequireFromString("10.00"),
		DueDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    "Sent",
	}
	assert.Nil(t, svc.UpdateInvoice(ctx, "1948765432109870000", update))
	assert.Nil(t, svc.UpdateInvoice(ctx, "not-an-id", update))
}

func TestDeleteInvoiceTwice(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created := svc.CreateInvoice(ctx, createRequest("INV-106"))
	if created == nil {
		t.Fatalf("expected invoice, got nil")
	}

	assert.True(t, svc.DeleteInvoice(ctx, created.ID))
	assert.False(t, svc.DeleteInvoice(ctx, created.ID))
	assert.Nil(t, svc.GetInvoice(ctx, created.ID))
	assert.False(t, svc.DeleteInvoice(ctx, "not-an-id"))
}

func TestGetInvoiceByNumber(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if created := svc.CreateInvoice(ctx, createRequest("INV-107")); created == nil {
		t.Fatalf("expected invoice, got nil")
	}

	found := svc.GetInvoiceByNumber(ctx, "INV-107")
	if found == nil || found.InvoiceNumber != "INV-107" {
		t.Fatalf("expected INV-107, got %+v", found)
	}
	assert.Nil(t, svc.GetInvoiceByNumber(ctx, "INV-999"))
	assert.Nil(t, svc.GetInvoiceByNumber(ctx, "   "))
}

func TestListsAbsorbMalformedIDs(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	byEvent := svc.ListInvoicesByEvent(ctx, "not-a-snowflake")
	if byEvent == nil || len(byEvent) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", byEvent)
	}
	byUser := svc.ListInvoicesByUser(ctx, "")
	if byUser == nil || len(byUser) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", byUser)
	}
	byStatus := svc.ListInvoicesByStatus(ctx, "NotAStatus")
	if byStatus == nil || len(byStatus) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", byStatus)
	}
	assert.Nil(t, svc.GetInvoice(ctx, "not-a-snowflake"))
}

type failingRepo struct{}

func (failingRepo) FindAll(ctx context.Context) repository.Result[[]*domain.Invoice] {
	return repository.Fail[[]*domain.Invoice]("Error retrieving invoices: connection refused")
}

func (failingRepo) FindByID(ctx context.Context, id snowflake.ID) repository.Result[*domain.Invoice] {
	return repository.Fail[*domain.Invoice]("connection refused")
}

func (failingRepo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) repository.Result[*domain.Invoice] {
	return repository.Fail[*domain.Invoice]("Error retrieving invoice by number: connection refused")
}

func (failingRepo) FindByEventID(ctx context.Context, eventID snowflake.ID) repository.Result[[]*domain.Invoice] {
	return repository.Fail[[]*domain.Invoice]("Error retrieving invoices by event: connection refused")
}

func (failingRepo) FindByUserID(ctx context.Context, userID snowflake.ID) repository.Result[[]*domain.Invoice] {
	return repository.Fail[[]*domain.Invoice]("Error retrieving invoices by user: connection refused")
}

func (failingRepo) FindByStatus(ctx context.Context, status domain.Status) repository.Result[[]*domain.Invoice] {
	return repository.Fail[[]*domain.Invoice]("Error retrieving invoices by status: connection refused")
}

func (failingRepo) FindOverdue(ctx context.Context) repository.Result[[]*domain.Invoice] {
	return repository.Fail[[]*domain.Invoice]("Error retrieving overdue invoices: connection refused")
}

func (failingRepo) Create(ctx context.Context, invoice *domain.Invoice) repository.Result[*domain.Invoice] {
	return repository.Fail[*domain.Invoice]("connection refused")
}

func (failingRepo) Update(ctx context.Context, invoice *domain.Invoice) repository.Result[*domain.Invoice] {
	return repository.Fail[*domain.Invoice]("connection refused")
}

func (failingRepo) Delete(ctx context.Context, id snowflake.ID) repository.Result[*domain.Invoice] {
	return repository.Fail[*domain.Invoice]("connection refused")
}

// loadedButFailingRepo reports an existing row but refuses to write it back,
// exercising the save half of the update flow.
type loadedButFailingRepo struct {
	failingRepo
	row domain.Invoice
}

func (r loadedButFailingRepo) FindByID(ctx context.Context, id snowflake.ID) repository.Result[*domain.Invoice] {
	row := r.row
	return repository.Ok(&row)
}

func TestServiceAbsorbsStorageFailures(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  failingRepo{},
	})
	ctx := context.Background()

	if got := svc.ListInvoices(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
	if got := svc.ListOverdueInvoices(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
	if got := svc.ListInvoicesByStatus(ctx, "Paid"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
	if got := svc.ListInvoicesByEvent(ctx, "123"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
	if got := svc.ListInvoicesByUser(ctx, "123"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", got)
	}
	assert.Nil(t, svc.GetInvoice(ctx, "123"))
	assert.Nil(t, svc.GetInvoiceByNumber(ctx, "INV-100"))
	assert.Nil(t, svc.CreateInvoice(ctx, createRequest("INV-100")))
	assert.False(t, svc.DeleteInvoice(ctx, "123"))

	update := domain.UpdateInvoiceRequest{
		EventName: "X",
		UserName:  "Y",
		Amount:    decimal.RequireFromString("10.00"),
		DueDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    "Sent",
	}
	assert.Nil(t, svc.UpdateInvoice(ctx, "123", update))
}

func TestUpdateAbsorbsSaveFailure(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	row := domain.Invoice{
		ID:            node.Generate(),
		InvoiceNumber: "INV-108",
		EventID:       node.Generate(),
		UserID:        node.Generate(),
		Amount:        decimal.RequireFromString("150.00"),
		Status:        domain.StatusDraft,
	}
	svc := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  loadedButFailingRepo{row: row},
	})

	update := domain.UpdateInvoiceRequest{
		EventName: "X",
		UserName:  "Y",
		Amount:    decimal.RequireFromString("10.00"),
		DueDate:   time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    "Sent",
	}
	assert.Nil(t, svc.UpdateInvoice(context.Background(), row.ID.String(), update))
}
