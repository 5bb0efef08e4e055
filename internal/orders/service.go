package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/angelmondragon/storecraft-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes order placement and retrieval operations.
type Service interface {
	CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*OrderDTO, error)
	GetOrder(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID int64, params pagination.Params) (*OrderListResult, error)
}

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64, params pagination.Params) ([]models.Order, error)
	FindProduct(ctx context.Context, id int64) (*models.Product, error)
	ReserveStock(ctx context.Context, productID int64, quantity int) (bool, error)
}

// ServiceParams packages the order service dependencies.
type ServiceParams struct {
	TxRunner    TxRunner
	Repo        orderRepository
	RepoFactory func(tx *gorm.DB) orderRepository
}

type service struct {
	tx    TxRunner
	repo  orderRepository
	repos func(tx *gorm.DB) orderRepository
}

// NewService builds an order service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	repos := params.RepoFactory
	if repos == nil {
		repos = func(tx *gorm.DB) orderRepository { return NewRepository(tx) }
	}
	return &service{
		tx:    params.TxRunner,
		repo:  params.Repo,
		repos: repos,
	}, nil
}

// CreateOrder snapshots the unit price of every line at order time and
// reserves stock inside one transaction, so a failed line leaves nothing
// behind.
func (s *service) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (*OrderDTO, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	seen := make(map[int64]struct{}, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in order items")
		}
		seen[line.ProductID] = struct{}{}
	}

	var created *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repos(tx)

		items := make([]models.OrderItem, 0, len(req.Items))
		total := decimal.Zero
		for _, line := range req.Items {
			product, err := repo.FindProduct(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation,
						fmt.Sprintf("product %d does not exist", line.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("product %d is not available", line.ProductID))
			}

			reserved, err := repo.ReserveStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: reserve stock")
			}
			if !reserved {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for product %d", product.ID))
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.OrderItem{
				ProductID:  product.ID,
				UnitPrice:  product.Price,
				Quantity:   line.Quantity,
				TotalPrice: lineTotal,
			})
			total = total.Add(lineTotal)
		}

		order, err := repo.Create(ctx, &models.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			Items:       items,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert order")
		}
		created = order
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create order transaction")
	}
	return NewOrderDTO(created), nil
}

// GetOrder returns the order if the requester owns it or is an admin.
func (s *service) GetOrder(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load order")
	}
	if order.UserID != requesterID && !isAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListOrders(ctx context.Context, userID int64, params pagination.Params) (*OrderListResult, error) {
	found, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(found) > limit {
		found = found[:limit]
		last := found[len(found)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.OrderedAt, ID: last.ID})
	}

	dtos := make([]OrderDTO, 0, len(found))
	for i := range found {
		dtos = append(dtos, *NewOrderDTO(&found[i]))
	}
	return &OrderListResult{Orders: dtos, NextCursor: next}, nil
}
