package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

type ReferenceType string

const (
	RefTransaction ReferenceType = "transaction"
	RefAdjustment  ReferenceType = "adjustment"
	RefRestock     ReferenceType = "restock"
)

// StockMovement is one row of the inventory ledger. The table is
// append-only: rows are never updated or deleted, and the signed sum of
// quantities per product must reconcile with the product's stock.
type StockMovement struct {
	BaseModel
	ProductID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product      `json:"product,omitempty" validate:"-"`
	MovementType  MovementType  `gorm:"type:varchar(20);not null" json:"movement_type"`
	Quantity      int           `gorm:"not null" json:"quantity"` // signed: positive in, negative out
	ReferenceType ReferenceType `gorm:"type:varchar(20);not null" json:"reference_type"`
	ReferenceID   *uuid.UUID    `gorm:"type:uuid" json:"reference_id,omitempty"`
	Notes         *string       `gorm:"type:text" json:"notes,omitempty"`
}
