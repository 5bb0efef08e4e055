package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/angelmondragon/storecraft-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Category{}, &models.Product{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	svc, err := NewService(ServiceParams{
		TxRunner: gormTxRunner{db: conn},
		Repo:     NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, name string, price string, stock int, active bool) *models.Product {
	t.Helper()

	category := models.Category{Name: "cat-" + uuid.NewString(), IsActive: true}
	if err := conn.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: category.ID,
		IsActive:   active,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return &product
}

func TestCreateOrderSnapshotsPricesAndTotals(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	laptop := mustCreateProduct(t, conn, "Laptop", "999.99", 5, true)
	mouse := mustCreateProduct(t, conn, "Mouse", "24.50", 10, true)

	order, err := svc.CreateOrder(ctx, 7, CreateOrderRequest{Items: []OrderItemInput{
		{ProductID: laptop.ID, Quantity: 1},
		{ProductID: mouse.ID, Quantity: 2},
	}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("expected pending status, got %q", order.Status)
	}
	if want := decimal.RequireFromString("1048.99"); !order.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.TotalAmount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.ProductID == mouse.ID {
			if !item.UnitPrice.Equal(mouse.Price) {
				t.Fatalf("expected snapshotted unit price %s, got %s", mouse.Price, item.UnitPrice)
			}
			if want := decimal.RequireFromString("49.00"); !item.TotalPrice.Equal(want) {
				t.Fatalf("expected line total %s, got %s", want, item.TotalPrice)
			}
		}
	}

	var stored models.Product
	if err := conn.First(&stored, "id = ?", mouse.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Stock != 8 {
		t.Fatalf("expected stock reserved down to 8, got %d", stored.Stock)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	laptop := mustCreateProduct(t, conn, "Laptop", "999.99", 5, true)
	mouse := mustCreateProduct(t, conn, "Mouse", "24.50", 1, true)

	_, err := svc.CreateOrder(ctx, 7, CreateOrderRequest{Items: []OrderItemInput{
		{ProductID: laptop.ID, Quantity: 2},
		{ProductID: mouse.ID, Quantity: 3},
	}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for insufficient stock, got %v", err)
	}

	var stored models.Product
	if err := conn.First(&stored, "id = ?", laptop.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.Stock != 5 {
		t.Fatalf("expected rollback to restore stock 5, got %d", stored.Stock)
	}
	var count int64
	if err := conn.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no orders persisted, got %d", count)
	}
}

func TestCreateOrderRejectsBadLines(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	inactive := mustCreateProduct(t, conn, "Discontinued", "10.00", 5, false)

	cases := []struct {
		name  string
		items []OrderItemInput
		code  pkgerrors.Code
	}{
		{"empty order", nil, pkgerrors.CodeValidation},
		{"unknown product", []OrderItemInput{{ProductID: 9999, Quantity: 1}}, pkgerrors.CodeValidation},
		{"inactive product", []OrderItemInput{{ProductID: inactive.ID, Quantity: 1}}, pkgerrors.CodeValidation},
		{"zero quantity", []OrderItemInput{{ProductID: inactive.ID, Quantity: 0}}, pkgerrors.CodeValidation},
		{"duplicate line", []OrderItemInput{
			{ProductID: inactive.ID, Quantity: 1},
			{ProductID: inactive.ID, Quantity: 1},
		}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, 7, CreateOrderRequest{Items: tc.items})
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestGetOrderEnforcesOwnership(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "Laptop", "999.99", 5, true)
	created, err := svc.CreateOrder(ctx, 7, CreateOrderRequest{Items: []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.GetOrder(ctx, created.ID, 7, false); err != nil {
		t.Fatalf("owner read rejected: %v", err)
	}
	if _, err := svc.GetOrder(ctx, created.ID, 99, true); err != nil {
		t.Fatalf("admin read rejected: %v", err)
	}

	_, err = svc.GetOrder(ctx, created.ID, 99, false)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for other user, got %v", err)
	}

	_, err = svc.GetOrder(ctx, 424242, 7, false)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListOrdersPaginates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	product := mustCreateProduct(t, conn, "Widget", "5.00", 100, true)
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateOrder(ctx, 7, CreateOrderRequest{Items: []OrderItemInput{
			{ProductID: product.ID, Quantity: 1},
		}}); err != nil {
			t.Fatalf("create order %d: %v", i, err)
		}
	}
	if _, err := svc.CreateOrder(ctx, 8, CreateOrderRequest{Items: []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	}}); err != nil {
		t.Fatalf("create other user's order: %v", err)
	}

	page, err := svc.ListOrders(ctx, 7, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(page.Orders) != 2 || page.NextCursor == "" {
		t.Fatalf("expected 2 orders and a next cursor, got %d %q", len(page.Orders), page.NextCursor)
	}

	rest, err := svc.ListOrders(ctx, 7, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest.Orders) != 1 || rest.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d %q", len(rest.Orders), rest.NextCursor)
	}
	for _, order := range rest.Orders {
		if order.UserID != 7 {
			t.Fatalf("listed another user's order: %+v", order)
		}
	}
}
