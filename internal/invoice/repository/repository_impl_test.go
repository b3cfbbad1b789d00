package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktur/internal/clock"
	"github.com/smallbiznis/faktur/internal/invoice/domain"
)

func setupRepo(t *testing.T, now time.Time) (domain.Repository, *snowflake.Node) {
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

	repo := Provide(Params{DB: conn, Clock: clock.NewFakeClock(now)})
	return repo, node
}

func newInvoice(node *snowflake.Node, number string, created time.Time) *domain.Invoice {
	return &domain.Invoice{
		ID:            node.Generate(),
		InvoiceNumber: number,
		EventID:       node.Generate(),
		UserID:        node.Generate(),
		EventName:     "Jakarta Tech Summit",
		UserName:      "Putri Maharani",
		Amount:        decimal.RequireFromString("150.00"),
		IssueDate:     created,
		DueDate:       created.Add(30 * 24 * time.Hour),
		Status:        domain.StatusDraft,
		CreatedAt:     created,
	}
}

func mustCreate(t *testing.T, repo domain.Repository, invoice *domain.Invoice) {
	t.Helper()
	if res := repo.Create(context.Background(), invoice); !res.Success {
		t.Fatalf("create %s: %s", invoice.InvoiceNumber, res.Message)
	}
}

func TestFindAllNewestFirst(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	empty := repo.FindAll(ctx)
	if !empty.Success {
		t.Fatalf("find all failed: %s", empty.Message)
	}
	if empty.Data == nil || len(empty.Data) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty.Data)
	}

	mustCreate(t, repo, newInvoice(node, "INV-001", now.Add(-3*time.Hour)))
	mustCreate(t, repo, newInvoice(node, "INV-002", now.Add(-2*time.Hour)))
	mustCreate(t, repo, newInvoice(node, "INV-003", now.Add(-1*time.Hour)))

	all := repo.FindAll(ctx)
	if !all.Success {
		t.Fatalf("find all failed: %s", all.Message)
	}
	if len(all.Data) != 3 {
		t.Fatalf("expected 3 invoices, got %d", len(all.Data))
	}
	for i, want := range []string{"INV-003", "INV-002", "INV-001"} {
		if all.Data[i].InvoiceNumber != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, all.Data[i].InvoiceNumber)
		}
	}
}

func TestFindByInvoiceNumber(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	mustCreate(t, repo, newInvoice(node, "INV-100", now))

	found := repo.FindByInvoiceNumber(ctx, "INV-100")
	if !found.Success {
		t.Fatalf("lookup failed: %s", found.Message)
	}
	if found.Data.InvoiceNumber != "INV-100" {
		t.Fatalf("expected INV-100, got %s", found.Data.InvoiceNumber)
	}

	missing := repo.FindByInvoiceNumber(ctx, "INV-999")
	if missing.Success {
		t.Fatalf("expected miss for unknown number")
	}
	if missing.Message != domain.MessageInvoiceNotFound {
		t.Fatalf("expected %q, got %q", domain.MessageInvoiceNotFound, missing.Message)
	}
}

func TestFindByEventAndUser(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	eventID := node.Generate()
	userID := node.Generate()

	first := newInvoice(node, "INV-201", now.Add(-2*time.Hour))
	first.EventID = eventID
	first.UserID = userID
	second := newInvoice(node, "INV-202", now.Add(-1*time.Hour))
	second.EventID = eventID
	third := newInvoice(node, "INV-203", now)
	third.UserID = userID
	mustCreate(t, repo, first)
	mustCreate(t, repo, second)
	mustCreate(t, repo, third)

	byEvent := repo.FindByEventID(ctx, eventID)
	if !byEvent.Success {
		t.Fatalf("by event failed: %s", byEvent.Message)
	}
	if len(byEvent.Data) != 2 || byEvent.Data[0].InvoiceNumber != "INV-202" {
		t.Fatalf("expected INV-202 then INV-201, got %v", byEvent.Data)
	}

	byUser := repo.FindByUserID(ctx, userID)
	if !byUser.Success {
		t.Fatalf("by user failed: %s", byUser.Message)
	}
	if len(byUser.Data) != 2 || byUser.Data[0].InvoiceNumber != "INV-203" {
		t.Fatalf("expected INV-203 then INV-201, got %v", byUser.Data)
	}

	none := repo.FindByEventID(ctx, node.Generate())
	if !none.Success || len(none.Data) != 0 {
		t.Fatalf("expected empty result for unknown event, got %+v", none)
	}
}

func TestFindByStatusIncludesDraft(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	draft := newInvoice(node, "INV-301", now.Add(-1*time.Hour))
	sent := newInvoice(node, "INV-302", now)
	sent.Status = domain.StatusSent
	mustCreate(t, repo, draft)
	mustCreate(t, repo, sent)

	drafts := repo.FindByStatus(ctx, domain.StatusDraft)
	if !drafts.Success {
		t.Fatalf("by status failed: %s", drafts.Message)
	}
	if len(drafts.Data) != 1 || drafts.Data[0].InvoiceNumber != "INV-301" {
		t.Fatalf("expected only INV-301 in Draft, got %v", drafts.Data)
	}

	sents := repo.FindByStatus(ctx, domain.StatusSent)
	if !sents.Success || len(sents.Data) != 1 || sents.Data[0].InvoiceNumber != "INV-302" {
		t.Fatalf("expected only INV-302 in Sent, got %+v", sents)
	}

	paid := repo.FindByStatus(ctx, domain.StatusPaid)
	if !paid.Success || len(paid.Data) != 0 {
		t.Fatalf("expected no Paid invoices, got %+v", paid)
	}
}

func TestFindOverdue(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	older := newInvoice(node, "INV-401", now.Add(-40*24*time.Hour))
	older.DueDate = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	older.Status = domain.StatusSent

	newer := newInvoice(node, "INV-402", now.Add(-20*24*time.Hour))
	newer.DueDate = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	lastNight := newInvoice(node, "INV-403", now.Add(-10*24*time.Hour))
	lastNight.DueDate = time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	lastNight.Status = domain.StatusSent

	dueToday := newInvoice(node, "INV-404", now.Add(-5*24*time.Hour))
	dueToday.DueDate = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	dueToday.Status = domain.StatusSent

	settled := newInvoice(node, "INV-405", now.Add(-30*24*time.Hour))
	settled.DueDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	settled.Status = domain.StatusPaid

	void := newInvoice(node, "INV-406", now.Add(-35*24*time.Hour))
	void.DueDate = time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	void.Status = domain.StatusCancelled

	future := newInvoice(node, "INV-407", now)
	future.DueDate = time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)

	for _, invoice := range []*domain.Invoice{older, newer, lastNight, dueToday, settled, void, future} {
		mustCreate(t, repo, invoice)
	}

	overdue := repo.FindOverdue(ctx)
	if !overdue.Success {
		t.Fatalf("overdue failed: %s", overdue.Message)
	}
	if len(overdue.Data) != 3 {
		t.Fatalf("expected 3 overdue invoices, got %d", len(overdue.Data))
	}
	for i, want := range []string{"INV-401", "INV-402", "INV-403"} {
		if overdue.Data[i].InvoiceNumber != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, overdue.Data[i].InvoiceNumber)
		}
	}
}

func TestCreateDuplicateNumber(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	mustCreate(t, repo, newInvoice(node, "INV-500", now))

	dup := repo.Create(ctx, newInvoice(node, "INV-500", now))
	if dup.Success {
		t.Fatalf("expected duplicate number to fail")
	}
	if strings.HasPrefix(dup.Message, "Error retrieving") {
		t.Fatalf("create failure should carry the raw storage message, got %q", dup.Message)
	}
}

func TestDeleteTwice(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	repo, node := setupRepo(t, now)
	ctx := context.Background()

	invoice := newInvoice(node, "INV-600", now)
	mustCreate(t, repo, invoice)

	first := repo.Delete(ctx, invoice.ID)
	if !first.Success {
		t.Fatalf("delete failed: %s", first.Message)
	}

	second := repo.Delete(ctx, invoice.ID)
	if second.Success {
		t.Fatalf("expected second delete to fail")
	}
	if !second.NotFound() {
		t.Fatalf("expected entity not found, got %q", second.Message)
	}

	gone := repo.FindByID(ctx, invoice.ID)
	if gone.Success || !gone.NotFound() {
		t.Fatalf("expected lookup miss after delete, got %+v", gone)
	}
}
