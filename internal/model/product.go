package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	Barcode       *string         `gorm:"type:varchar(64);uniqueIndex" json:"barcode,omitempty"`
	Category      *string         `gorm:"type:varchar(100)" json:"category,omitempty"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`

	// Relations
	Items     []TransactionItem `json:"items,omitempty"`
	Movements []StockMovement   `json:"movements,omitempty"`
}
