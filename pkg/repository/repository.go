package repository

import (
	"context"

	"github.com/smallbiznis/faktur/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a generic store over a single entity type. Every operation
// reports through Result; callers branch on Success and never handle a raw
// storage error.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	FindAll(ctx context.Context, query *T, opts ...option.QueryOption) Result[[]*T]
	FindByID(ctx context.Context, id any) Result[*T]
	Create(ctx context.Context, entity *T) Result[*T]
	Update(ctx context.Context, entity *T) Result[*T]
	Delete(ctx context.Context, id any) Result[*T]
	Count(ctx context.Context, query *T) Result[int64]
	BatchCreate(ctx context.Context, entities []*T) Result[[]*T]
}
