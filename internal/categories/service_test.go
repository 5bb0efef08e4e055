package categories

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCategoryCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, UpsertCategoryRequest{
		Name:        " Electronics ",
		Description: "Devices and gadgets",
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if created.Name != "Electronics" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if !created.IsActive {
		t.Fatal("expected categories to default to active")
	}

	fetched, err := svc.GetCategory(ctx, created.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected category %d, got %d", created.ID, fetched.ID)
	}

	inactive := false
	updated, err := svc.UpdateCategory(ctx, created.ID, UpsertCategoryRequest{
		Name:        "Consumer Electronics",
		Description: "Updated description",
		IsActive:    &inactive,
	})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if updated.Name != "Consumer Electronics" || updated.IsActive {
		t.Fatalf("update not applied: %+v", updated)
	}

	all, err := svc.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 category, got %d", len(all))
	}

	if err := svc.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	_, err = svc.GetCategory(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateCategoryConflictOnDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, UpsertCategoryRequest{Name: "Books"}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	_, err := svc.CreateCategory(ctx, UpsertCategoryRequest{Name: "Books"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate name, got %v", err)
	}
}

func TestDeleteCategoryWithProductsIsRejected(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, UpsertCategoryRequest{Name: "Books"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := conn.Create(&models.Product{
		Name:       "Go Programming",
		Price:      decimal.NewFromInt(30),
		CategoryID: created.ID,
		IsActive:   true,
	}).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = svc.DeleteCategory(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for category in use, got %v", err)
	}
}
