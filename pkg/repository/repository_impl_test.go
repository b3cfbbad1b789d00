package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/faktur/pkg/db"
	"github.com/smallbiznis/faktur/pkg/db/option"
	"gorm.io/gorm"
)

type note struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	Code  string       `gorm:"type:varchar(32);not null;uniqueIndex"`
	Body  string       `gorm:"type:varchar(255)"`
	Stars int          `gorm:"not null;default:0"`
}

func setupStore(t *testing.T) (Repository[note], *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&note{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return ProvideStore[note](conn), conn, node
}

func TestStoreCreateAndFindByID(t *testing.T) {
	store, _, node := setupStore(t)
	ctx := context.Background()

	created := store.Create(ctx, &note{ID: node.Generate(), Code: "n-1", Body: "first"})
	if !created.Success {
		t.Fatalf("create failed: %s", created.Message)
	}

	found := store.FindByID(ctx, created.Data.ID)
	if !found.Success {
		t.Fatalf("find failed: %s", found.Message)
	}
	if found.Data.Code != "n-1" {
		t.Fatalf("expected code n-1, got %s", found.Data.Code)
	}

	missing := store.FindByID(ctx, node.Generate())
	if missing.Success {
		t.Fatalf("expected miss for unknown id")
	}
	if missing.Message != MessageEntityNotFound {
		t.Fatalf("expected %q, got %q", MessageEntityNotFound, missing.Message)
	}
	if !missing.NotFound() {
		t.Fatalf("expected NotFound for miss")
	}
}

func TestStoreFindAll(t *testing.T) {
	store, _, node := setupStore(t)
	ctx := context.Background()

	empty := store.FindAll(ctx, &note{})
	if !empty.Success {
		t.Fatalf("find all failed: %s", empty.Message)
	}
	if empty.Data == nil || len(empty.Data) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", empty.Data)
	}

	for i, code := range []string{"a", "b", "c"} {
		res := store.Create(ctx, &note{ID: node.Generate(), Code: code, Stars: i})
		if !res.Success {
			t.Fatalf("create %s failed: %s", code, res.Message)
		}
	}

	all := store.FindAll(ctx, &note{}, option.OrderBy("code DESC"))
	if !all.Success {
		t.Fatalf("find all failed: %s", all.Message)
	}
	if len(all.Data) != 3 || all.Data[0].Code != "c" {
		t.Fatalf("expected 3 notes ordered by code desc, got %v", all.Data)
	}

	starred := store.FindAll(ctx, &note{},
		option.ApplyOperator(option.Condition{Field: "stars", Operator: option.GTE, Value: 1}),
		option.OrderBy("stars ASC"),
		option.Limit(1),
	)
	if !starred.Success {
		t.Fatalf("filtered find failed: %s", starred.Message)
	}
	if len(starred.Data) != 1 || starred.Data[0].Code != "b" {
		t.Fatalf("expected note b, got %v", starred.Data)
	}
}

func TestStoreUpdateReplacesRow(t *testing.T) {
	store, _, node := setupStore(t)
	ctx := context.Background()

	created := store.Create(ctx, &note{ID: node.Generate(), Code: "n-1", Body: "draft", Stars: 3})
	if !created.Success {
		t.Fatalf("create failed: %s", created.Message)
	}

	row := created.Data
	row.Body = "final"
	row.Stars = 0
	updated := store.Update(ctx, row)
	if !updated.Success {
		t.Fatalf("update failed: %s", updated.Message)
	}

	found := store.FindByID(ctx, row.ID)
	if !found.Success {
		t.Fatalf("find failed: %s", found.Message)
	}
	if found.Data.Body != "final" {
		t.Fatalf("expected updated body, got %s", found.Data.Body)
	}
	if found.Data.Stars != 0 {
		t.Fatalf("expected zero stars written through, got %d", found.Data.Stars)
	}
}

func TestStoreDeleteTwice(t *testing.T) {
	store, _, node := setupStore(t)
	ctx := context.Background()

	created := store.Create(ctx, &note{ID: node.Generate(), Code: "n-1"})
	if !created.Success {
		t.Fatalf("create failed: %s", created.Message)
	}

	first := store.Delete(ctx, created.Data.ID)
	if !first.Success {
		t.Fatalf("delete failed: %s", first.Message)
	}

	second := store.Delete(ctx, created.Data.ID)
	if second.Success {
		t.Fatalf("expected second delete to fail")
	}
	if !second.NotFound() {
		t.Fatalf("expected entity not found, got %q", second.Message)
	}
}

func TestStoreDuplicateCreate(t *testing.T) {
	store, _, node := setupStore(t)
	ctx := context.Background()

	first := store.Create(ctx, &note{ID: node.Generate(), Code: "dup"})
	if !first.Success {
		t.Fatalf("create failed: %s", first.Message)
	}

	second := store.Create(ctx, &note{ID: node.Generate(), Code: "dup"})
	if second.Success {
		t.Fatalf("expected duplicate code to fail")
	}
	if !db.IsDuplicateKeyMessage(second.Message) {
		t.Fatalf("expected duplicate key message, got %q", second.Message)
	}
}

func TestStoreBatchCreateAndCount(t *testing.T) {
	store, conn, node := setupStore(t)
	ctx := context.Background()

	none := store.BatchCreate(ctx, nil)
	if !none.Success {
		t.Fatalf("empty batch failed: %s", none.Message)
	}

	batch := []*note{
		{ID: node.Generate(), Code: "b-1", Stars: 1},
		{ID: node.Generate(), Code: "b-2", Stars: 1},
		{ID: node.Generate(), Code: "b-3"},
	}
	err := conn.Transaction(func(tx *gorm.DB) error {
		res := store.WithTrx(tx).BatchCreate(ctx, batch)
		if !res.Success {
			return fmt.Errorf("batch create: %s", res.Message)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	total := store.Count(ctx, &note{})
	if !total.Success || total.Data != 3 {
		t.Fatalf("expected 3 notes, got %+v", total)
	}

	starred := store.Count(ctx, &note{Stars: 1})
	if !starred.Success || starred.Data != 2 {
		t.Fatalf("expected 2 starred notes, got %+v", starred)
	}
}
