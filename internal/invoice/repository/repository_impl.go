package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktur/internal/clock"
	"github.com/smallbiznis/faktur/internal/invoice/domain"
	"github.com/smallbiznis/faktur/pkg/db/option"
	pkgrepo "github.com/smallbiznis/faktur/pkg/repository"
)

// Params declares the dependencies of the invoice store.
type Params struct {
	fx.In

	DB    *gorm.DB
	Clock clock.Clock
}

type repo struct {
	store pkgrepo.Repository[domain.Invoice]
	clock clock.Clock
}

// Provide builds the invoice store on top of the generic GORM-backed store.
func Provide(p Params) domain.Repository {
	return &repo{
		store: pkgrepo.ProvideStore[domain.Invoice](p.DB),
		clock: p.Clock,
	}
}

func (r *repo) FindAll(ctx context.Context) pkgrepo.Result[[]*domain.Invoice] {
	res := r.store.FindAll(ctx, &domain.Invoice{}, option.OrderBy("created_at DESC"))
	if !res.Success {
		return pkgrepo.Failf[[]*domain.Invoice]("Error retrieving invoices: %s", res.Message)
	}
	return res
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) pkgrepo.Result[*domain.Invoice] {
	return r.store.FindByID(ctx, id)
}

func (r *repo) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) pkgrepo.Result[*domain.Invoice] {
	res := r.store.FindAll(ctx, &domain.Invoice{},
		option.ApplyOperator(option.Condition{Field: "invoice_number", Operator: option.EQ, Value: invoiceNumber}),
		option.Limit(1),
	)
	if !res.Success {
		return pkgrepo.Failf[*domain.Invoice]("Error retrieving invoice by number: %s", res.Message)
	}
	if len(res.Data) == 0 {
		return pkgrepo.Fail[*domain.Invoice](domain.MessageInvoiceNotFound)
	}
	return pkgrepo.Ok(res.Data[0])
}

func (r *repo) FindByEventID(ctx context.Context, eventID snowflake.ID) pkgrepo.Result[[]*domain.Invoice] {
	res := r.store.FindAll(ctx, &domain.Invoice{},
		option.ApplyOperator(option.Condition{Field: "event_id", Operator: option.EQ, Value: eventID}),
		option.OrderBy("created_at DESC"),
	)
	if !res.Success {
		return pkgrepo.Failf[[]*domain.Invoice]("Error retrieving invoices by event: %s", res.Message)
	}
	return res
}

func (r *repo) FindByUserID(ctx context.Context, userID snowflake.ID) pkgrepo.Result[[]*domain.Invoice] {
	res := r.store.FindAll(ctx, &domain.Invoice{},
		option.ApplyOperator(option.Condition{Field: "user_id", Operator: option.EQ, Value: userID}),
		option.OrderBy("created_at DESC"),
	)
	if !res.Success {
		return pkgrepo.Failf[[]*domain.Invoice]("Error retrieving invoices by user: %s", res.Message)
	}
	return res
}

func (r *repo) FindByStatus(ctx context.Context, status domain.Status) pkgrepo.Result[[]*domain.Invoice] {
	res := r.store.FindAll(ctx, &domain.Invoice{},
		option.ApplyOperator(option.Condition{Field: "status", Operator: option.EQ, Value: int(status)}),
		option.OrderBy("created_at DESC"),
	)
	if !res.Success {
		return pkgrepo.Failf[[]*domain.Invoice]("Error retrieving invoices by status: %s", res.Message)
	}
	return res
}

// FindOverdue returns invoices whose due date has passed and that are still
// collectible. Due "today" is not overdue; the cutoff is the start of the
// current UTC day. Results are ordered most overdue first.
func (r *repo) FindOverdue(ctx context.Context) pkgrepo.Result[[]*domain.Invoice] {
	now := r.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	res := r.store.FindAll(ctx, &domain.Invoice{},
		option.ApplyOperator(option.Condition{Field: "due_date", Operator: option.LT, Value: today}),
		option.ApplyOperator(option.Condition{Field: "status", Operator: option.NotIn, Value: []int{int(domain.StatusPaid), int(domain.StatusCancelled)}}),
		option.OrderBy("due_date ASC"),
	)
	if !res.Success {
		return pkgrepo.Failf[[]*domain.Invoice]("Error retrieving overdue invoices: %s", res.Message)
	}
	return res
}

func (r *repo) Create(ctx context.Context, invoice *domain.Invoice) pkgrepo.Result[*domain.Invoice] {
	return r.store.Create(ctx, invoice)
}

func (r *repo) Update(ctx context.Context, invoice *domain.Invoice) pkgrepo.Result[*domain.Invoice] {
	return r.store.Update(ctx, invoice)
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) pkgrepo.Result[*domain.Invoice] {
	return r.store.Delete(ctx, id)
}
