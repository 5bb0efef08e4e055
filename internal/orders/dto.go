package orders

import (
	"time"

	"github.com/angelmondragon/storecraft-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// OrderItemInput is a single requested line on a new order.
type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest carries the lines of a new order.
type CreateOrderRequest struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// OrderItemDTO is the transport shape for a persisted order line.
type OrderItemDTO struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderDTO is the transport shape for a persisted order.
type OrderDTO struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	OrderedAt   time.Time       `json:"ordered_at"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItemDTO  `json:"items"`
}

// OrderListResult is a cursor page of orders.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds the transport order from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ID:         item.ID,
			ProductID:  item.ProductID,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return &OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		OrderedAt:   order.OrderedAt,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       items,
	}
}
