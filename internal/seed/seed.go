package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktur/internal/invoice/domain"
	"github.com/smallbiznis/faktur/internal/invoice/format"
	"github.com/smallbiznis/faktur/internal/ratelimit"
	"github.com/smallbiznis/faktur/pkg/repository"
)

const seedLockKey = "faktur:seed:lock"

// EnsureDemoInvoices seeds a handful of demo invoices into an empty
// database. It is safe to run on every startup: a non-empty invoices table
// is left untouched, and a best-effort redis lock keeps replicas from
// seeding twice.
func EnsureDemoInvoices(db *gorm.DB, log *zap.Logger, limiter *ratelimit.WriteLimiter) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()

	token, acquired, err := limiter.TryLock(ctx, seedLockKey, 30*time.Second)
	if err != nil {
		log.Warn("seed lock unavailable, continuing without it", zap.Error(err))
	} else if !acquired {
		log.Info("demo seed already running on another replica")
		return nil
	} else {
		defer func() { _ = limiter.Release(ctx, seedLockKey, token) }()
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	store := repository.ProvideStore[domain.Invoice](db)

	count := store.Count(ctx, &domain.Invoice{})
	if !count.Success {
		return errors.New(count.Message)
	}
	if count.Data > 0 {
		return nil
	}

	invoices, err := demoInvoices(node, time.Now().UTC())
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := store.WithTrx(tx).BatchCreate(ctx, invoices)
		if !res.Success {
			return errors.New(res.Message)
		}
		log.Info("seeded demo invoices", zap.Int("count", len(invoices)))
		return nil
	})
}

func demoInvoices(node *snowflake.Node, now time.Time) ([]*domain.Invoice, error) {
	type row struct {
		event  string
		user   string
		amount string
		issued time.Time
		due    time.Time
		status domain.Status
		desc   string
	}

	rows := []row{
		{"Jakarta Tech Summit", "Putri Maharani", "1250.00", now.AddDate(0, 0, -40), now.AddDate(0, 0, -10), domain.StatusSent, "Exhibitor booth, early bird"},
		{"Jakarta Tech Summit", "Agus Wibowo", "450.00", now.AddDate(0, 0, -5), now.AddDate(0, 0, 25), domain.StatusSent, ""},
		{"Bandung Design Week", "Sari Lestari", "780.50", now, now.AddDate(0, 0, 30), domain.StatusDraft, "Workshop pass and catering"},
	}

	events := map[string]snowflake.ID{}
	users := map[string]snowflake.ID{}

	invoices := make([]*domain.Invoice, 0, len(rows))
	for i, r := range rows {
		eventID, ok := events[r.event]
		if !ok {
			eventID = node.Generate()
			events[r.event] = eventID
		}
		userID, ok := users[r.user]
		if !ok {
			userID = node.Generate()
			users[r.user] = userID
		}

		number, err := format.FormatInvoiceNumber(format.DefaultInvoiceNumberTemplate, r.issued, int64(i+1))
		if err != nil {
			return nil, err
		}

		invoices = append(invoices, &domain.Invoice{
			ID:            node.Generate(),
			InvoiceNumber: number,
			EventID:       eventID,
			EventName:     r.event,
			UserID:        userID,
			UserName:      r.user,
			Amount:        decimal.RequireFromString(r.amount),
			IssueDate:     r.issued,
			DueDate:       r.due,
			Status:        r.status,
			Description:   r.desc,
			CreatedAt:     now,
		})
	}
	return invoices, nil
}
