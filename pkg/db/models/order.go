package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses move forward only; there is no state machine beyond this list.
const (
	OrderStatusPending   = "Pending"
	OrderStatusPaid      = "Paid"
	OrderStatusShipped   = "Shipped"
	OrderStatusCancelled = "Cancelled"
)

// Order is a placed customer order.
type Order struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64           `gorm:"column:user_id;not null;index"`
	OrderedAt   time.Time       `gorm:"column:ordered_at;autoCreateTime"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status      string          `gorm:"column:status;size:50;not null;default:Pending"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}
