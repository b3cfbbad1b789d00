package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/faktur/pkg/db/option"
	"gorm.io/gorm"
)

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (r *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	return &store[T]{db: tx}
}

func (r *store[T]) FindAll(ctx context.Context, query *T, opts ...option.QueryOption) Result[[]*T] {
	result := make([]*T, 0)
	stmt := r.buildQuery(ctx, query, opts...)
	if err := stmt.Find(&result).Error; err != nil {
		return Fail[[]*T](err.Error())
	}
	return Ok(result)
}

func (r *store[T]) FindByID(ctx context.Context, id any) Result[*T] {
	var result T
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Fail[*T](MessageEntityNotFound)
		}
		return Fail[*T](err.Error())
	}
	return Ok(&result)
}

func (r *store[T]) Create(ctx context.Context, entity *T) Result[*T] {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return Fail[*T](err.Error())
	}
	return Ok(entity)
}

// Update writes the entity as the full replacement for its row. Callers
// wanting partial semantics load the row first and mutate the loaded copy.
func (r *store[T]) Update(ctx context.Context, entity *T) Result[*T] {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return Fail[*T](err.Error())
	}
	return Ok(entity)
}

// Delete looks the row up before removing it, so a missing ID reports the
// same failure as FindByID and a repeated delete fails.
func (r *store[T]) Delete(ctx context.Context, id any) Result[*T] {
	found := r.FindByID(ctx, id)
	if !found.Success {
		return found
	}
	if err := r.db.WithContext(ctx).Delete(found.Data).Error; err != nil {
		return Fail[*T](err.Error())
	}
	return OkEmpty[*T]()
}

func (r *store[T]) Count(ctx context.Context, query *T) Result[int64] {
	var count int64
	if err := r.db.WithContext(ctx).Model(query).Where(query).Count(&count).Error; err != nil {
		return Fail[int64](err.Error())
	}
	return Ok(count)
}

func (r *store[T]) BatchCreate(ctx context.Context, entities []*T) Result[[]*T] {
	if len(entities) == 0 {
		return Ok(entities)
	}
	if err := r.db.WithContext(ctx).Create(entities).Error; err != nil {
		return Fail[[]*T](err.Error())
	}
	return Ok(entities)
}

func (s *store[T]) buildQuery(ctx context.Context, filter *T, opts ...option.QueryOption) *gorm.DB {
	db := s.db.WithContext(ctx).Where(filter)

	for _, opt := range opts {
		db = opt.Apply(db)
	}

	return db
}
