package models

import "github.com/shopspring/decimal"

// OrderItem is a single product line on an order. UnitPrice is snapshotted at
// order time; TotalPrice = UnitPrice * Quantity is computed by the service.
type OrderItem struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID    int64           `gorm:"column:order_id;not null;index"`
	ProductID  int64           `gorm:"column:product_id;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
}
